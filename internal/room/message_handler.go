package room

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"ctchen222/tictak/internal/game"
	"ctchen222/tictak/internal/validator"
	"ctchen222/tictak/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage handles a message from the client. It acts as a dispatcher.
// Rejected commands are logged and dropped; the client only ever sees state updates.
func (r *Room) HandleMessage(ctx context.Context, rawMessage []byte) {
	ctx, span := tracer.Start(ctx, "room.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", r.Player.ID),
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "session.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "player.id", r.Player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	var err error
	switch message.Type {
	case proto.TypeSelectDifficulty:
		err = r.handleSelectDifficulty(ctx, &message)
	case proto.TypeMove:
		err = r.engine.SubmitHumanMove(ctx, *message.Square)
	case proto.TypeNewGame:
		r.engine.StartNewGame(ctx)
	case proto.TypeRematch:
		err = r.engine.Rematch(ctx)
	}
	if err != nil {
		r.absorb(ctx, span, message.Type, err)
	}
}

func (r *Room) handleSelectDifficulty(ctx context.Context, message *proto.ClientToServerMessage) error {
	difficulty, err := game.ParseDifficulty(message.Difficulty)
	if err != nil {
		return err
	}
	return r.engine.SelectDifficulty(ctx, difficulty)
}

// absorb logs a command the engine refused. Taken squares and out-of-turn commands log at debug.
func (r *Room) absorb(ctx context.Context, span trace.Span, msgType string, err error) {
	span.RecordError(err)
	switch {
	case errors.Is(err, game.ErrInvalidMove), errors.Is(err, game.ErrIllegalStateTransition):
		slog.DebugContext(ctx, "command ignored", "session.id", r.ID, "message.type", msgType, "error", err)
	default:
		slog.WarnContext(ctx, "command rejected", "session.id", r.ID, "message.type", msgType, "error", err)
		span.SetStatus(codes.Error, "Command rejected")
	}
}
