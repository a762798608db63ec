package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PostgresFeed listens on the notify channel filled by the table triggers and
// fans notifications out in process. Publish goes through pg_notify so other
// instances see it too.
type PostgresFeed struct {
	db       *gorm.DB
	listener *pq.Listener
	broker   *broker
	done     chan struct{}
	once     sync.Once
}

func NewPostgresFeed(dsn string, db *gorm.DB) (*PostgresFeed, error) {
	listener := pq.NewListener(dsn, config.FeedReconnectMin, config.FeedReconnectMax,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Warn().Err(err).Int("event", int(ev)).Msg("postgres listener event")
			}
		})
	if err := listener.Listen(config.NotifyChannel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("listen %s: %w", config.NotifyChannel, err)
	}

	f := &PostgresFeed{
		db:       db,
		listener: listener,
		broker:   newBroker(),
		done:     make(chan struct{}),
	}
	go f.dispatch()
	return f, nil
}

func (f *PostgresFeed) dispatch() {
	ticker := time.NewTicker(config.FeedPingInterval)
	defer ticker.Stop()

	for {
		select {
		case n, ok := <-f.listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// Reconnected; anything sent meanwhile is lost.
				f.broker.poke()
				continue
			}
			event, err := DecodeNotification(n.Extra)
			if err != nil {
				log.Warn().Err(err).Msg("dropping undecodable notification")
				continue
			}
			f.broker.broadcast(event)
		case <-ticker.C:
			go func() {
				if err := f.listener.Ping(); err != nil {
					log.Warn().Err(err).Msg("postgres listener ping failed")
				}
			}()
		case <-f.done:
			return
		}
	}
}

// DecodeNotification parses the trigger payload.
func DecodeNotification(payload string) (ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return ChangeEvent{}, err
	}
	if event.Table == "" {
		return ChangeEvent{}, fmt.Errorf("notification without table: %q", payload)
	}
	return event, nil
}

func (f *PostgresFeed) Publish(ctx context.Context, event ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return f.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", config.NotifyChannel, string(payload)).Error
}

func (f *PostgresFeed) Subscribe(_ context.Context, filter Filter) (Subscription, error) {
	return f.broker.add(filter), nil
}

// Close stops the listener and closes every open subscription.
func (f *PostgresFeed) Close() error {
	var err error
	f.once.Do(func() {
		close(f.done)
		err = f.listener.Close()
		f.broker.closeAll()
	})
	return err
}
