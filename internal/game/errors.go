package game

import "errors"

var (
	// ErrInvalidMove is returned when a square is out of range or already occupied.
	ErrInvalidMove = errors.New("invalid move")
	// ErrIllegalStateTransition is returned when an operation is not allowed in the current game state.
	ErrIllegalStateTransition = errors.New("illegal state transition")
	// ErrUnknownDifficulty is returned for a difficulty outside easy, medium and hard.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)
