package realtime

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type RefreshFunc func(ctx context.Context)

// Watcher refreshes on every matching change and at least once per interval.
type Watcher struct {
	feed     Feed
	interval time.Duration
	filters  []Filter
	refresh  RefreshFunc
}

func NewWatcher(feed Feed, interval time.Duration, refresh RefreshFunc, filters ...Filter) *Watcher {
	return &Watcher{feed: feed, interval: interval, filters: filters, refresh: refresh}
}

// Run refreshes once, then keeps refreshing until ctx is done. Every
// subscription it opened is closed before it returns. A filter that cannot
// be subscribed is covered by the interval alone.
func (w *Watcher) Run(ctx context.Context) {
	merged := make(chan ChangeEvent, 1)
	var subs []Subscription
	defer func() {
		for _, s := range subs {
			s.Close()
		}
	}()

	if w.feed != nil {
		for _, f := range w.filters {
			sub, err := w.feed.Subscribe(ctx, f)
			if err != nil {
				log.Warn().Err(err).Str("table", f.Table).Msg("subscription failed, polling only")
				continue
			}
			subs = append(subs, sub)
			go forward(ctx, sub.Events(), merged)
		}
	}

	w.refresh(ctx)

	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-merged:
		case <-timer.C:
		}
		if ctx.Err() != nil {
			return
		}
		w.refresh(ctx)
		timer.Reset(w.interval)
	}
}

func forward(ctx context.Context, in <-chan ChangeEvent, out chan<- ChangeEvent) {
	for event := range in {
		select {
		case out <- event:
		case <-ctx.Done():
			return
		}
	}
}
