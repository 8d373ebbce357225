package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("events")

// RedisSink publishes events on a per-session pub/sub channel so collaborators running in other
// processes (sound, haptics) can react to them.
type RedisSink struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisSink creates a Redis-backed Sink. An empty prefix uses DefaultChannelPrefix.
func NewRedisSink(rdb *redis.Client, prefix string) *RedisSink {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisSink{rdb: rdb, prefix: prefix}
}

// Notify publishes the event. Failures are logged and recorded on the span; the game goes on.
func (s *RedisSink) Notify(ctx context.Context, e Event) {
	channel := Channel(s.prefix, e.SessionID)
	ctx, span := tracer.Start(ctx, "events.RedisSink.Notify", trace.WithAttributes(
		attribute.String("event.type", string(e.Type)),
		attribute.String("event.channel", channel),
	))
	defer span.End()

	payload, err := json.Marshal(e)
	if err != nil {
		slog.ErrorContext(ctx, "could not marshal event", "event", e.Type, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not marshal event")
		return
	}
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "event", e.Type, "channel", channel, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to publish event")
	}
}

// Subscribe streams the events of one session until ctx is done. The returned channel is closed when
// the subscription ends.
func Subscribe(ctx context.Context, rdb *redis.Client, prefix, sessionID string) (<-chan Event, error) {
	channel := Channel(prefix, sessionID)
	pubsub := rdb.Subscribe(ctx, channel)
	// Wait for the subscription confirmation so no event published afterwards is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					slog.ErrorContext(ctx, "could not unmarshal event", "channel", channel, "error", err)
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
