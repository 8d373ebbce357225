package hub

import (
	"context"
	"log/slog"
	"sync"

	"ctchen222/tictak/internal/engine"
	"ctchen222/tictak/internal/events"
	"ctchen222/tictak/internal/hub/types"
	"ctchen222/tictak/internal/room"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("hub")

// Hub manages all live game sessions.
type Hub struct {
	calculator engine.MoveCalculator
	sink       events.Sink
	engineOpts []engine.Option

	mu    sync.RWMutex
	rooms map[string]*room.Room

	register   chan *types.RegistrationRequest
	unregister chan *room.Room
}

// NewHub creates a new hub. Every session gets its own engine built with calculator, sink and opts.
func NewHub(calculator engine.MoveCalculator, sink events.Sink, opts ...engine.Option) *Hub {
	return &Hub{
		calculator: calculator,
		sink:       sink,
		engineOpts: opts,
		rooms:      make(map[string]*room.Room),
		register:   make(chan *types.RegistrationRequest),
		unregister: make(chan *room.Room),
	}
}

// Run starts the hub. It returns when ctx is done, after closing every session.
func (h *Hub) Run(ctx context.Context) {
	slog.InfoContext(ctx, "hub started")
	for {
		select {
		case req := <-h.register:
			h.openSession(req)

		case r := <-h.unregister:
			h.closeSession(ctx, r)

		case <-ctx.Done():
			h.closeAll(context.WithoutCancel(ctx))
			slog.Info("hub stopped")
			return
		}
	}
}

// Register returns the register channel.
func (h *Hub) Register() chan<- *types.RegistrationRequest {
	return h.register
}

// Unregister returns the unregister channel.
func (h *Hub) Unregister() chan<- *room.Room {
	return h.unregister
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Room returns a live session by id.
func (h *Hub) Room(id string) (*room.Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[id]
	return r, ok
}
