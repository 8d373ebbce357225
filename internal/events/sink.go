package events

import (
	"context"
	"log/slog"
)

// MultiSink dispatches every event to each of its sinks in order.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a new MultiSink, skipping nil sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Notify forwards the event to all underlying sinks.
func (m *MultiSink) Notify(ctx context.Context, e Event) {
	for _, s := range m.sinks {
		s.Notify(ctx, e)
	}
}

// LogSink writes events to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink; a nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, e Event) {
	s.logger.InfoContext(ctx, "game event", "event", e.Type, "session.id", e.SessionID, "square", e.Square)
}

// ChannelSink hands events to an asynchronous consumer. Sends never block the engine: when the buffer
// is full the event is dropped and logged.
type ChannelSink struct {
	ch chan Event
}

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Event, buffer)}
}

func (s *ChannelSink) Notify(ctx context.Context, e Event) {
	select {
	case s.ch <- e:
	default:
		slog.WarnContext(ctx, "event buffer full, dropping event", "event", e.Type, "session.id", e.SessionID)
	}
}

// Events returns the receive side of the sink.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) Notify(context.Context, Event) {}
