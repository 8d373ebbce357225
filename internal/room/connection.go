package room

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"ctchen222/tictak/internal/engine"
	"ctchen222/tictak/internal/events"
	"ctchen222/tictak/pkg/proto"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Notify forwards an engine notification to the client.
func (r *Room) Notify(ctx context.Context, e events.Event) {
	msg := proto.EventMessage{Type: proto.TypeEvent, Event: string(e.Type), At: e.At}
	if e.Square != events.NoSquare {
		square := e.Square
		msg.Square = &square
	}
	r.enqueue(ctx, encode(ctx, msg))
}

// enqueue hands a message to the write pump. A client that does not keep up loses messages.
func (r *Room) enqueue(ctx context.Context, data []byte) {
	if data == nil {
		return
	}
	select {
	case <-r.Done:
	case r.send <- data:
	default:
		slog.WarnContext(ctx, "client send buffer full, dropping message", "session.id", r.ID, "player.id", r.Player.ID)
	}
}

// ReadPump pumps messages from the websocket connection to HandleMessage until the connection fails.
func (r *Room) ReadPump() {
	ctx, span := tracer.Start(context.Background(), "room.ReadPump", trace.WithAttributes(
		attribute.String("player.id", r.Player.ID),
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	conn := r.Player.Conn
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "Player connection error", "player.id", r.Player.ID, "session.id", r.ID, "error", err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "Player connection error")
			}
			return
		}
		r.HandleMessage(ctx, msg)
	}
}

// writePump is the only writer of the connection.
func (r *Room) writePump() {
	pingTicker := time.NewTicker(heartbeatInterval)
	defer pingTicker.Stop()

	conn := r.Player.Conn
	for {
		select {
		case <-r.Done:
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case data := <-r.send:
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Warn("error writing message to player", "player.id", r.Player.ID, "session.id", r.ID, "error", err)
				conn.Close()
				return
			}

		case <-pingTicker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Warn("Failed to send ping to player, assuming disconnect", "player.id", r.Player.ID, "error", err)
				conn.Close()
				return
			}
		}
	}
}

func encodeUpdate(snap engine.Snapshot) []byte {
	return encode(context.Background(), proto.UpdateMessage{
		Type:       proto.TypeUpdate,
		SessionID:  snap.SessionID,
		State:      string(snap.State),
		Outcome:    snap.Outcome,
		Difficulty: snap.Difficulty,
		Board:      snap.Board,
		LastMove:   snap.LastMove,
	})
}

func encode(ctx context.Context, msg any) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		return nil
	}
	return data
}
