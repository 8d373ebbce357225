package engine

import (
	"context"
	"log/slog"

	"ctchen222/tictak/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("engine")

	movesCounter  metric.Int64Counter
	gamesFinished metric.Int64Counter
)

func init() {
	var err error
	movesCounter, err = meter.Int64Counter("tictak.moves",
		metric.WithDescription("Moves placed on a board, by mark."))
	if err != nil {
		slog.Error("failed to create moves counter", "error", err)
	}
	gamesFinished, err = meter.Int64Counter("tictak.games.finished",
		metric.WithDescription("Games that reached a terminal outcome."))
	if err != nil {
		slog.Error("failed to create games counter", "error", err)
	}
}

func recordMove(ctx context.Context, mark game.Mark) {
	if movesCounter == nil {
		return
	}
	movesCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("mark", string(mark))))
}

func recordFinished(ctx context.Context, outcome game.Outcome, difficulty game.Difficulty) {
	if gamesFinished == nil {
		return
	}
	gamesFinished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", string(outcome)),
		attribute.String("difficulty", string(difficulty)),
	))
}
