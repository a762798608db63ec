package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisFeed uses one pub/sub channel per table/column/value plus one per table.
type RedisFeed struct {
	rdb *redis.Client
}

func NewRedisFeed(rdb *redis.Client) *RedisFeed {
	return &RedisFeed{rdb: rdb}
}

// ChannelName is the Redis channel a filter listens on.
func ChannelName(f Filter) string {
	if f.Column == "" {
		return "changes:" + f.Table
	}
	return fmt.Sprintf("changes:%s:%s:%s", f.Table, f.Column, f.Value)
}

func (f *RedisFeed) Publish(ctx context.Context, event ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	channels := []string{ChannelName(TableFilter(event.Table))}
	if event.Column != "" {
		channels = append(channels, ChannelName(Filter{Table: event.Table, Column: event.Column, Value: event.Value}))
	}
	for _, ch := range channels {
		if err := f.rdb.Publish(ctx, ch, payload).Err(); err != nil {
			return fmt.Errorf("publish %s: %w", ch, err)
		}
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context, filter Filter) (Subscription, error) {
	channel := ChannelName(filter)
	pubsub := f.rdb.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	s := &redisSubscription{
		pubsub: pubsub,
		events: make(chan ChangeEvent, subscriptionBuffer),
	}
	go s.listen(channel)
	return s, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	events chan ChangeEvent
	once   sync.Once
}

func (s *redisSubscription) listen(channel string) {
	defer close(s.events)

	for msg := range s.pubsub.Channel() {
		var event ChangeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("dropping undecodable change event")
			continue
		}
		select {
		case s.events <- event:
		default:
		}
	}
}

func (s *redisSubscription) Events() <-chan ChangeEvent { return s.events }

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() { err = s.pubsub.Close() })
	return err
}
