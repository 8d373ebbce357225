package game

import (
	"fmt"
	"strings"
)

// Mark identifies who owns a placed move. None marks an empty square.
type Mark string

// Outcome is derived from a Board; it is never stored on its own.
type Outcome string

// Difficulty selects the computer's move policy for one game.
type Difficulty string

const (
	None     Mark = ""
	Human    Mark = "X"
	Computer Mark = "O"

	InProgress  Outcome = "in_progress"
	HumanWin    Outcome = "human_win"
	ComputerWin Outcome = "computer_win"
	Draw        Outcome = "draw"

	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"

	// Board boundaries
	BoardSize    = 9
	SquareMin    = 0
	SquareMax    = BoardSize - 1
	CenterSquare = 4
)

// WinPatterns lists every line of three squares: rows, then columns, then the two diagonals.
var WinPatterns = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Difficulties lists the supported tiers in ascending strength.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Opponent returns the other side.
func (m Mark) Opponent() Mark {
	switch m {
	case Human:
		return Computer
	case Computer:
		return Human
	default:
		return None
	}
}

// IsValid reports whether d is one of the supported tiers.
func (d Difficulty) IsValid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// ParseDifficulty maps "easy", "medium" or "hard" (any case) to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownDifficulty)
	}
	return d, nil
}

// IsTerminal reports whether the outcome ends the game.
func (o Outcome) IsTerminal() bool {
	return o == HumanWin || o == ComputerWin || o == Draw
}

// WinOutcome returns the outcome produced when mark completes a line.
func WinOutcome(mark Mark) Outcome {
	if mark == Human {
		return HumanWin
	}
	return ComputerWin
}

// IsValidSquare reports whether i addresses a square of the 3x3 grid.
func IsValidSquare(i int) bool {
	return i >= SquareMin && i <= SquareMax
}
