package bot

import (
	"ctchen222/tictak/internal/game"
)

var (
	corners = [4]int{0, 2, 6, 8}
	edges   = [4]int{1, 3, 5, 7}
)

// CalculateNextMove determines the computer's next square for the given difficulty.
// The board must have at least one empty square; calling it on a full board panics.
func CalculateNextMove(board game.Board, difficulty game.Difficulty, rng RandSource, easyOptimalChance int) int {
	if board.IsFull() {
		panic("bot: CalculateNextMove called on a full board")
	}
	switch difficulty {
	case game.Easy:
		return easyMove(&board, rng, easyOptimalChance)
	case game.Medium:
		return mediumMove(&board, rng)
	case game.Hard:
		return hardMove(&board, rng)
	default:
		return mediumMove(&board, rng)
	}
}

// ImmediateWinningSquare returns the empty square that completes a line for mark, if any.
// Patterns are scanned rows first, then columns, then the two diagonals.
func ImmediateWinningSquare(board *game.Board, mark game.Mark) (int, bool) {
	for _, pattern := range game.WinPatterns {
		empty, held := -1, 0
		for _, i := range pattern {
			switch board.At(i) {
			case mark:
				held++
			case game.None:
				empty = i
			}
		}
		if held == 2 && empty != -1 {
			return empty, true
		}
	}
	return -1, false
}

// easyMove plays well only some of the time: with easyOptimalChance percent probability it takes a win or
// a block, otherwise it picks any empty square.
func easyMove(board *game.Board, rng RandSource, easyOptimalChance int) int {
	if rng.IntN(100) < easyOptimalChance {
		if square, ok := ImmediateWinningSquare(board, game.Computer); ok {
			return square
		}
		if square, ok := ImmediateWinningSquare(board, game.Human); ok {
			return square
		}
	}
	return randomOf(board.AvailableSquares(), rng)
}

// mediumMove will win if it can, block if it must, take the center, otherwise move randomly.
func mediumMove(board *game.Board, rng RandSource) int {
	if square, ok := winOrBlock(board); ok {
		return square
	}
	if !board.IsOccupied(game.CenterSquare) {
		return game.CenterSquare
	}
	return randomOf(board.AvailableSquares(), rng)
}

// hardMove is medium plus a preference for corners over edges.
func hardMove(board *game.Board, rng RandSource) int {
	if square, ok := winOrBlock(board); ok {
		return square
	}
	if !board.IsOccupied(game.CenterSquare) {
		return game.CenterSquare
	}
	if free := emptyOf(board, corners[:]); len(free) > 0 {
		return randomOf(free, rng)
	}
	if free := emptyOf(board, edges[:]); len(free) > 0 {
		return randomOf(free, rng)
	}
	// Unreachable on a 3x3 board with the center taken, kept as a deterministic fallback.
	return board.AvailableSquares()[0]
}

func winOrBlock(board *game.Board) (int, bool) {
	if square, ok := ImmediateWinningSquare(board, game.Computer); ok {
		return square, true
	}
	return ImmediateWinningSquare(board, game.Human)
}

func emptyOf(board *game.Board, squares []int) []int {
	var free []int
	for _, i := range squares {
		if !board.IsOccupied(i) {
			free = append(free, i)
		}
	}
	return free
}

func randomOf(candidates []int, rng RandSource) int {
	return candidates[rng.IntN(len(candidates))]
}
