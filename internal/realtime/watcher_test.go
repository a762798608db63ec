package realtime_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/realtime"
	"github.com/stretchr/testify/assert"
)

type failingFeed struct{}

func (failingFeed) Publish(context.Context, realtime.ChangeEvent) error { return nil }

func (failingFeed) Subscribe(context.Context, realtime.Filter) (realtime.Subscription, error) {
	return nil, errors.New("feed down")
}

func runWatcher(ctx context.Context, w *realtime.Watcher) *sync.WaitGroup {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Run(ctx)
	}()
	return &wg
}

func TestWatcher_RefreshesOnEvent(t *testing.T) {
	feed := realtime.NewLocalFeed()
	var refreshes atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	w := realtime.NewWatcher(feed, time.Hour, func(context.Context) { refreshes.Add(1) },
		realtime.FilterFor(config.TableMessages, "K1"),
		realtime.FilterFor(config.TableContacts, "C1"))
	wg := runWatcher(ctx, w)

	assert.Eventually(t, func() bool { return refreshes.Load() == 1 && feed.Subscribers() == 2 }, time.Second, 5*time.Millisecond)

	feed.Publish(ctx, realtime.EventFor(config.TableMessages, realtime.OpInsert, "K1"))
	assert.Eventually(t, func() bool { return refreshes.Load() == 2 }, time.Second, 5*time.Millisecond)

	feed.Publish(ctx, realtime.EventFor(config.TableMessages, realtime.OpInsert, "other"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), refreshes.Load())

	cancel()
	wg.Wait()
	assert.Equal(t, 0, feed.Subscribers(), "subscriptions are closed on teardown")
}

func TestWatcher_PollsWithoutEvents(t *testing.T) {
	var refreshes atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := realtime.NewWatcher(realtime.NewLocalFeed(), 20*time.Millisecond, func(context.Context) { refreshes.Add(1) },
		realtime.TableFilter(config.TableCompanies))
	runWatcher(ctx, w)

	assert.Eventually(t, func() bool { return refreshes.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestWatcher_FallsBackToPollingWhenSubscribeFails(t *testing.T) {
	var refreshes atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	w := realtime.NewWatcher(failingFeed{}, 20*time.Millisecond, func(context.Context) { refreshes.Add(1) },
		realtime.TableFilter(config.TableCompanies))
	wg := runWatcher(ctx, w)

	assert.Eventually(t, func() bool { return refreshes.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	wg.Wait()
}
