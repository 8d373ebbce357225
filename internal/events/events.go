package events

import (
	"context"
	"fmt"
	"time"

	"ctchen222/tictak/internal/game"
)

// Pub/Sub channel constants
const (
	DefaultChannelPrefix = "channel:session:"
	channelSuffix        = ":events"
)

// Kind names a discrete notification emitted by the game engine.
type Kind string

const (
	HumanMoved    Kind = "human_moved"
	ComputerMoved Kind = "computer_moved"
	HumanWon      Kind = "human_won"
	ComputerWon   Kind = "computer_won"
	Draw          Kind = "draw"
)

// NoSquare is the Square of events that are not tied to a move.
const NoSquare = -1

// Event is a notification for collaborators such as audio or haptics. It carries no instructions
// about which effect to play.
type Event struct {
	Type      Kind      `json:"event"`
	SessionID string    `json:"session_id"`
	Square    int       `json:"square"`
	At        time.Time `json:"at"`
}

//go:generate mockgen -source=events.go -destination=mocks/mock_sink.go -package=mocks

// Sink receives engine notifications. Implementations must not call back into the engine.
type Sink interface {
	Notify(ctx context.Context, e Event)
}

// Moved builds the event for a placed move.
func Moved(sessionID string, mark game.Mark, square int) Event {
	kind := HumanMoved
	if mark == game.Computer {
		kind = ComputerMoved
	}
	return Event{Type: kind, SessionID: sessionID, Square: square, At: time.Now()}
}

// Finished builds the event for a terminal outcome. It returns false for an outcome that does not end
// the game.
func Finished(sessionID string, outcome game.Outcome) (Event, bool) {
	var kind Kind
	switch outcome {
	case game.HumanWin:
		kind = HumanWon
	case game.ComputerWin:
		kind = ComputerWon
	case game.Draw:
		kind = Draw
	default:
		return Event{}, false
	}
	return Event{Type: kind, SessionID: sessionID, Square: NoSquare, At: time.Now()}, true
}

// Channel returns the pub/sub channel that carries a session's events.
func Channel(prefix, sessionID string) string {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return fmt.Sprintf("%s%s%s", prefix, sessionID, channelSuffix)
}
