package proto

import (
	"time"

	"ctchen222/tictak/internal/game"
)

// Client message types.
const (
	TypeSelectDifficulty = "select_difficulty"
	TypeMove             = "move"
	TypeNewGame          = "new_game"
	TypeRematch          = "rematch"
)

// Server message types.
const (
	TypeUpdate = "update"
	TypeEvent  = "event"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type       string `json:"type" validate:"required,oneof=select_difficulty move new_game rematch"`
	Difficulty string `json:"difficulty,omitempty" validate:"required_if=Type select_difficulty,omitempty,difficulty"`
	Square     *int   `json:"square,omitempty" validate:"required_if=Type move,omitempty,square"`
}

// UpdateMessage carries the full session view after every state change.
type UpdateMessage struct {
	Type       string                    `json:"type"`
	SessionID  string                    `json:"session_id"`
	State      string                    `json:"state"`
	Outcome    game.Outcome              `json:"outcome"`
	Difficulty game.Difficulty           `json:"difficulty,omitempty"`
	Board      [game.BoardSize]game.Mark `json:"board"`
	LastMove   *game.Move                `json:"last_move,omitempty"`
}

// EventMessage forwards a discrete game notification, e.g. for sound effects on the client.
type EventMessage struct {
	Type   string    `json:"type"`
	Event  string    `json:"event"`
	Square *int      `json:"square,omitempty"`
	At     time.Time `json:"at"`
}
