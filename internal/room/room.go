package room

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ctchen222/tictak/internal/engine"
	"ctchen222/tictak/internal/events"
	"ctchen222/tictak/internal/player"

	"go.opentelemetry.io/otel"
)

const (
	heartbeatInterval = 10 * time.Second
	pongWait          = 3 * heartbeatInterval
	maxMessageSize    = 512
	sendBuffer        = 16
)

var tracer = otel.Tracer("room")

// Room binds one client connection to one game session.
type Room struct {
	ID     string
	Player *player.Player

	engine *engine.Engine
	send   chan []byte

	closeOnce sync.Once
	Done      chan struct{}
}

// NewRoom creates a room and the engine of its session. Engine notifications go to sink and to the
// client.
func NewRoom(id string, p *player.Player, calculator engine.MoveCalculator, sink events.Sink, opts ...engine.Option) *Room {
	r := &Room{
		ID:     id,
		Player: p,
		send:   make(chan []byte, sendBuffer),
		Done:   make(chan struct{}),
	}
	r.engine = engine.NewEngine(id, calculator, events.NewMultiSink(sink, r), opts...)
	return r
}

// Engine returns the game engine of the session.
func (r *Room) Engine() *engine.Engine {
	return r.engine
}

// Start runs the session until the client goes away or the room is closed, then hands the room to
// unregister.
func (r *Room) Start(unregister chan<- *Room) {
	go r.writePump()
	go r.forwardUpdates()

	r.enqueue(context.Background(), encodeUpdate(r.engine.Snapshot()))
	r.ReadPump()

	select {
	case unregister <- r:
	case <-r.Done:
	}
}

// Close stops the engine, discarding a pending computer move, and closes the connection.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.Done)
		r.engine.Close()
		if err := r.Player.Conn.Close(); err != nil {
			slog.Debug("closing connection", "session.id", r.ID, "error", err)
		}
	})
}

// forwardUpdates streams engine snapshots to the client until the engine is closed.
func (r *Room) forwardUpdates() {
	for snap := range r.engine.Updates() {
		r.enqueue(context.Background(), encodeUpdate(snap))
	}
}
