package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/rs/zerolog/log"
)

// Client is a live dashboard connection.
type Client interface {
	GetID() string
	GetActor() models.Actor
	// GetSendChannel receives encoded frames for the client.
	GetSendChannel() chan<- []byte
	Run()
	Close()
}

// LoadFunc builds the current view for an actor.
type LoadFunc func(ctx context.Context, actor models.Actor) any

// Frame is what the hub writes to clients.
type Frame struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

type hubEntry struct {
	client Client
	cancel context.CancelFunc
	done   chan struct{}
}

// Hub keeps one Watcher per connected client and pushes the client its
// freshly loaded view whenever the watcher fires.
type Hub struct {
	RegisterCh   chan Client
	UnregisterCh chan Client

	feed     Feed
	interval time.Duration
	load     LoadFunc

	mu      sync.RWMutex
	clients map[string]*hubEntry
	stopped chan struct{}
}

func NewHub(feed Feed, interval time.Duration, load LoadFunc) *Hub {
	return &Hub{
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		feed:         feed,
		interval:     interval,
		load:         load,
		clients:      make(map[string]*hubEntry),
		stopped:      make(chan struct{}),
	}
}

// Register hands a client to the hub; it is a no-op once the hub stopped.
func (h *Hub) Register(client Client) {
	select {
	case h.RegisterCh <- client:
	case <-h.stopped:
	}
}

func (h *Hub) Unregister(client Client) {
	select {
	case h.UnregisterCh <- client:
	case <-h.stopped:
	}
}

// Run serves register/unregister requests until ctx is done, then tears
// every client down.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case client := <-h.RegisterCh:
			h.register(ctx, client)
		case client := <-h.UnregisterCh:
			h.unregister(client)
		case <-ctx.Done():
			h.mu.Lock()
			entries := h.clients
			h.clients = make(map[string]*hubEntry)
			h.mu.Unlock()
			for _, e := range entries {
				h.teardown(e)
			}
			return
		}
	}
}

func (h *Hub) register(ctx context.Context, client Client) {
	h.mu.Lock()
	if old, ok := h.clients[client.GetID()]; ok {
		delete(h.clients, client.GetID())
		h.mu.Unlock()
		h.teardown(old)
		h.mu.Lock()
	}

	wctx, cancel := context.WithCancel(ctx)
	e := &hubEntry{client: client, cancel: cancel, done: make(chan struct{})}
	h.clients[client.GetID()] = e
	h.mu.Unlock()

	actor := client.GetActor()
	watcher := NewWatcher(h.feed, h.interval, func(ctx context.Context) {
		h.push(ctx, client, h.load(ctx, actor))
	}, FiltersFor(actor)...)

	go func() {
		defer close(e.done)
		watcher.Run(wctx)
	}()
	log.Info().Str("client", client.GetID()).Str("role", string(actor.Role)).Msg("dashboard client registered")
}

func (h *Hub) unregister(client Client) {
	h.mu.Lock()
	e, ok := h.clients[client.GetID()]
	if ok && e.client == client {
		delete(h.clients, client.GetID())
	} else {
		ok = false
	}
	h.mu.Unlock()

	if ok {
		h.teardown(e)
		log.Info().Str("client", client.GetID()).Msg("dashboard client unregistered")
	}
}

// teardown stops the watcher and closes the client once nothing can send to it.
func (h *Hub) teardown(e *hubEntry) {
	e.cancel()
	go func() {
		<-e.done
		e.client.Close()
	}()
}

func (h *Hub) push(ctx context.Context, client Client, view any) {
	if ctx.Err() != nil {
		return
	}
	data, err := json.Marshal(Frame{Type: "view", At: time.Now(), Data: view})
	if err != nil {
		log.Error().Err(err).Str("client", client.GetID()).Msg("failed to encode view")
		return
	}
	select {
	case client.GetSendChannel() <- data:
	default:
		log.Warn().Str("client", client.GetID()).Msg("client too slow, dropping view")
	}
}

// ClientCount reports the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
