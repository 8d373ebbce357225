package hub

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var sessionsActive metric.Int64UpDownCounter

func init() {
	var err error
	sessionsActive, err = otel.Meter("hub").Int64UpDownCounter("tictak.sessions.active",
		metric.WithDescription("Number of live game sessions"),
	)
	if err != nil {
		slog.Error("failed to create sessions counter", "error", err)
	}
}

func recordSessionDelta(ctx context.Context, delta int64) {
	if sessionsActive != nil {
		sessionsActive.Add(ctx, delta)
	}
}
