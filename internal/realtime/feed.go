// Package realtime carries table change notifications to live dashboards.
package realtime

import (
	"context"
	"sync"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
)

const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// ChangeEvent says that a row of Table whose Column equals Value changed.
// Consumers only re-fetch; the row itself is never carried.
type ChangeEvent struct {
	Table  string `json:"table"`
	Op     string `json:"op"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Filter selects events of one table. An empty Column matches the whole table.
type Filter struct {
	Table  string
	Column string
	Value  string
}

func (f Filter) Matches(e ChangeEvent) bool {
	if f.Table != e.Table {
		return false
	}
	if f.Column == "" {
		return true
	}
	return f.Column == e.Column && f.Value == e.Value
}

// TableFilter matches every change of a table.
func TableFilter(table string) Filter {
	return Filter{Table: table}
}

// FilterFor scopes a table by its configured column.
func FilterFor(table, value string) Filter {
	return Filter{Table: table, Column: config.ScopeColumns[table], Value: value}
}

// EventFor builds an event scoped by the table's configured column.
func EventFor(table, op, value string) ChangeEvent {
	return ChangeEvent{Table: table, Op: op, Column: config.ScopeColumns[table], Value: value}
}

// FiltersFor lists what a dashboard for actor depends on.
func FiltersFor(actor models.Actor) []Filter {
	if actor.Role == models.RoleSuperAdmin && actor.Company == nil {
		return []Filter{TableFilter(config.TableCompanies)}
	}
	apiKey, companyID := actor.APIKey(), actor.CompanyID()
	return []Filter{
		FilterFor(config.TableMessages, apiKey),
		FilterFor(config.TableSentMessages, apiKey),
		FilterFor(config.TableContacts, companyID),
		FilterFor(config.TableDepartments, companyID),
		FilterFor(config.TableSectors, companyID),
		FilterFor(config.TableTags, companyID),
	}
}

// Subscription must be closed by its owner.
type Subscription interface {
	Events() <-chan ChangeEvent
	Close() error
}

type Feed interface {
	Publish(ctx context.Context, event ChangeEvent) error
	Subscribe(ctx context.Context, filter Filter) (Subscription, error)
}

const subscriptionBuffer = 16

// broker fans events out to in-process subscriptions. A full subscriber
// buffer drops the event; the pending ones already force a refresh.
type broker struct {
	mu   sync.Mutex
	subs map[*localSubscription]struct{}
}

func newBroker() *broker {
	return &broker{subs: make(map[*localSubscription]struct{})}
}

func (b *broker) add(filter Filter) *localSubscription {
	s := &localSubscription{
		filter: filter,
		events: make(chan ChangeEvent, subscriptionBuffer),
		broker: b,
	}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

func (b *broker) remove(s *localSubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
		close(s.events)
	}
}

func (b *broker) broadcast(event ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs {
		if !s.filter.Matches(event) {
			continue
		}
		select {
		case s.events <- event:
		default:
		}
	}
}

// poke delivers a synthetic event to every subscriber, used after a
// connection loss may have swallowed notifications.
func (b *broker) poke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs {
		select {
		case s.events <- ChangeEvent{Table: s.filter.Table, Column: s.filter.Column, Value: s.filter.Value}:
		default:
		}
	}
}

func (b *broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs {
		delete(b.subs, s)
		close(s.events)
	}
}

func (b *broker) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

type localSubscription struct {
	filter Filter
	events chan ChangeEvent
	broker *broker
}

func (s *localSubscription) Events() <-chan ChangeEvent { return s.events }

func (s *localSubscription) Close() error {
	s.broker.remove(s)
	return nil
}

// LocalFeed delivers events inside one process.
type LocalFeed struct {
	broker *broker
}

func NewLocalFeed() *LocalFeed {
	return &LocalFeed{broker: newBroker()}
}

func (f *LocalFeed) Publish(_ context.Context, event ChangeEvent) error {
	f.broker.broadcast(event)
	return nil
}

func (f *LocalFeed) Subscribe(_ context.Context, filter Filter) (Subscription, error) {
	return f.broker.add(filter), nil
}

// Subscribers reports the number of open subscriptions.
func (f *LocalFeed) Subscribers() int {
	return f.broker.size()
}
