package bot

import (
	"math/rand/v2"
	"sync"

	"ctchen222/tictak/internal/game"
)

// DefaultEasyOptimalChance is the percent chance that the easy tier looks for a win or block.
const DefaultEasyOptimalChance = 20

// RandSource is the subset of *rand.Rand the policies draw from.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// lockedRand makes a non thread-safe source usable from any goroutine.
type lockedRand struct {
	mu  sync.Mutex
	src RandSource
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.IntN(n)
}

// Bot is the computer opponent. It holds no game state, only its random source and tuning.
type Bot struct {
	rng               RandSource
	easyOptimalChance int
}

// Option configures a Bot.
type Option func(*Bot)

// WithRand injects the random source, e.g. rand.New(rand.NewPCG(1, 2)) for reproducible games.
func WithRand(src RandSource) Option {
	return func(b *Bot) {
		if src != nil {
			b.rng = &lockedRand{src: src}
		}
	}
}

// WithEasyOptimalChance sets the percent (0-100) chance that the easy tier plays a win or block.
func WithEasyOptimalChance(percent int) Option {
	return func(b *Bot) {
		b.easyOptimalChance = min(max(percent, 0), 100)
	}
}

// NewBot creates a computer opponent.
func NewBot(opts ...Option) *Bot {
	b := &Bot{
		rng:               globalRand{},
		easyOptimalChance: DefaultEasyOptimalChance,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CalculateNextMove picks the computer's square on a snapshot of the board.
func (b *Bot) CalculateNextMove(board game.Board, difficulty game.Difficulty) int {
	return CalculateNextMove(board, difficulty, b.rng, b.easyOptimalChance)
}

// EasyOptimalChance returns the configured easy-tier percent.
func (b *Bot) EasyOptimalChance() int {
	return b.easyOptimalChance
}
