package hub

import (
	"context"
	"log/slog"

	"ctchen222/tictak/internal/hub/types"
	"ctchen222/tictak/internal/room"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func (h *Hub) openSession(req *types.RegistrationRequest) {
	ctx := req.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	sessionID := uuid.New().String()
	ctx, span := tracer.Start(ctx, "hub.openSession", trace.WithAttributes(
		attribute.String("player.id", req.Player.ID),
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	r := room.NewRoom(sessionID, req.Player, h.calculator, h.sink, h.engineOpts...)

	h.mu.Lock()
	h.rooms[sessionID] = r
	h.mu.Unlock()
	recordSessionDelta(ctx, 1)

	go r.Start(h.unregister)
	slog.InfoContext(ctx, "session opened", "session.id", sessionID, "player.id", req.Player.ID)
}

func (h *Hub) closeSession(ctx context.Context, r *room.Room) {
	ctx, span := tracer.Start(ctx, "hub.closeSession", trace.WithAttributes(
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	h.mu.Lock()
	_, ok := h.rooms[r.ID]
	delete(h.rooms, r.ID)
	h.mu.Unlock()

	r.Close()
	if ok {
		recordSessionDelta(ctx, -1)
		slog.InfoContext(ctx, "session closed", "session.id", r.ID, "player.id", r.Player.ID)
	}
}

func (h *Hub) closeAll(ctx context.Context) {
	h.mu.RLock()
	rooms := make([]*room.Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.closeSession(ctx, r)
	}
}
