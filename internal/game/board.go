package game

import "fmt"

// Move is a mark placed on a square.
type Move struct {
	Mark   Mark `json:"mark"`
	Square int  `json:"square"`
}

// Board holds the nine squares of a game, row-major. The zero value is an empty board.
// A Board is a value: copying it yields an independent snapshot.
type Board struct {
	squares [BoardSize]Mark
	count   int
}

// BoardFromSquares builds a board from a row-major layout, mostly for tests and snapshots.
func BoardFromSquares(squares [BoardSize]Mark) Board {
	var b Board
	for i, m := range squares {
		if m != None {
			b.squares[i] = m
			b.count++
		}
	}
	return b
}

// IsOccupied reports whether some move exists at index i.
func (b Board) IsOccupied(i int) bool {
	return IsValidSquare(i) && b.squares[i] != None
}

// At returns the mark at square i, or None when empty or out of range.
func (b Board) At(i int) Mark {
	if !IsValidSquare(i) {
		return None
	}
	return b.squares[i]
}

// AvailableSquares returns the empty squares in ascending order. Each call builds a fresh slice.
func (b Board) AvailableSquares() []int {
	available := make([]int, 0, BoardSize-b.count)
	for i, m := range b.squares {
		if m == None {
			available = append(available, i)
		}
	}
	return available
}

// MovesOf returns the squares held by mark in ascending order.
func (b Board) MovesOf(mark Mark) []int {
	var held []int
	for i, m := range b.squares {
		if m != None && m == mark {
			held = append(held, i)
		}
	}
	return held
}

// Moves returns every placed move in square order.
func (b Board) Moves() []Move {
	moves := make([]Move, 0, b.count)
	for i, m := range b.squares {
		if m != None {
			moves = append(moves, Move{Mark: m, Square: i})
		}
	}
	return moves
}

// Place records mark at square i.
func (b *Board) Place(mark Mark, i int) error {
	if mark != Human && mark != Computer {
		return fmt.Errorf("mark %q: %w", mark, ErrInvalidMove)
	}
	if !IsValidSquare(i) {
		return fmt.Errorf("square %d out of range: %w", i, ErrInvalidMove)
	}
	if b.squares[i] != None {
		return fmt.Errorf("square %d occupied: %w", i, ErrInvalidMove)
	}
	b.squares[i] = mark
	b.count++
	return nil
}

// HasWon reports whether mark holds all three squares of any win pattern.
func (b Board) HasWon(mark Mark) bool {
	if mark == None {
		return false
	}
	for _, p := range WinPatterns {
		if b.squares[p[0]] == mark && b.squares[p[1]] == mark && b.squares[p[2]] == mark {
			return true
		}
	}
	return false
}

// Winner returns the mark that completed a line. Alternating turns guarantee at most one.
func (b Board) Winner() (Mark, bool) {
	for _, m := range []Mark{Human, Computer} {
		if b.HasWon(m) {
			return m, true
		}
	}
	return None, false
}

// IsFull reports whether all nine squares are occupied.
func (b Board) IsFull() bool {
	return b.count == BoardSize
}

// Len returns the number of placed moves.
func (b Board) Len() int {
	return b.count
}

// Squares returns a copy of the row-major layout.
func (b Board) Squares() [BoardSize]Mark {
	return b.squares
}

// Reset clears every square.
func (b *Board) Reset() {
	*b = Board{}
}

// OutcomeAfter evaluates the board right after last placed a piece. A win is checked before a full
// board so that a winning ninth move is not reported as a draw.
func (b Board) OutcomeAfter(last Mark) Outcome {
	if b.HasWon(last) {
		return WinOutcome(last)
	}
	if b.IsFull() {
		return Draw
	}
	return InProgress
}

// Outcome evaluates the board without knowing who moved last.
func (b Board) Outcome() Outcome {
	if m, ok := b.Winner(); ok {
		return WinOutcome(m)
	}
	if b.IsFull() {
		return Draw
	}
	return InProgress
}

// String renders the board as three rows, '.' for empty squares.
func (b Board) String() string {
	buf := make([]byte, 0, BoardSize+2)
	for i, m := range b.squares {
		if i > 0 && i%3 == 0 {
			buf = append(buf, '\n')
		}
		if m == None {
			buf = append(buf, '.')
		} else {
			buf = append(buf, m[0])
		}
	}
	return string(buf)
}
