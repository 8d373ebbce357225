package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ctchen222/tictak/internal/events"
	"ctchen222/tictak/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultComputerDelay is how long the computer "thinks" before answering a human move.
const DefaultComputerDelay = 500 * time.Millisecond

var tracer = otel.Tracer("engine")

// State is the turn-sequencing state of one game session.
type State string

const (
	AwaitingDifficulty State = "awaiting_difficulty"
	HumanTurn          State = "human_turn"
	ComputerThinking   State = "computer_thinking"
	GameOver           State = "game_over"
)

// MoveCalculator defines an interface for an agent that can calculate a game move.
// It receives a copy of the board, which always has at least one empty square.
type MoveCalculator interface {
	CalculateNextMove(board game.Board, difficulty game.Difficulty) int
}

// Snapshot is a read-only view of the engine for the presentation layer.
type Snapshot struct {
	SessionID  string                    `json:"session_id"`
	State      State                     `json:"state"`
	Outcome    game.Outcome              `json:"outcome"`
	Difficulty game.Difficulty           `json:"difficulty,omitempty"`
	Board      [game.BoardSize]game.Mark `json:"board"`
	LastMove   *game.Move                `json:"last_move,omitempty"`
}

// Engine owns the board of one game session and sequences human and computer turns.
// All methods are safe to call from any goroutine; state changes are serialized.
type Engine struct {
	id         string
	calculator MoveCalculator
	scheduler  Scheduler
	delay      time.Duration
	sink       events.Sink

	mu         sync.Mutex
	board      game.Board
	state      State
	difficulty game.Difficulty
	lastMove   *game.Move
	pending    Timer
	generation uint64
	closed     bool

	// emitMu is taken before mu is released so notifications leave in the order the state changed.
	emitMu  sync.Mutex
	updates chan Snapshot
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler replaces the timer used for the computer's thinking delay.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithComputerDelay sets the thinking delay. Zero answers on the next scheduler tick.
func WithComputerDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.delay = d
		}
	}
}

// NewEngine creates an engine waiting for a difficulty. A nil sink discards notifications.
func NewEngine(id string, calculator MoveCalculator, sink events.Sink, opts ...Option) *Engine {
	if sink == nil {
		sink = events.NopSink{}
	}
	e := &Engine{
		id:         id,
		calculator: calculator,
		scheduler:  TimerScheduler{},
		delay:      DefaultComputerDelay,
		sink:       sink,
		state:      AwaitingDifficulty,
		updates:    make(chan Snapshot, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the session id.
func (e *Engine) ID() string {
	return e.id
}

// Updates delivers a snapshot after every state change. Only the latest snapshot is kept when the
// consumer falls behind. The channel is closed by Close.
func (e *Engine) Updates() <-chan Snapshot {
	return e.updates
}

// Snapshot returns the current view of the game.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// State returns the current turn state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Board returns a copy of the board.
func (e *Engine) Board() game.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board
}

// Outcome is recomputed from the board on every call.
func (e *Engine) Outcome() game.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.Outcome()
}

// SelectDifficulty fixes the difficulty and starts a game with an empty board. It is accepted while
// awaiting a difficulty or after a game ended.
func (e *Engine) SelectDifficulty(ctx context.Context, d game.Difficulty) error {
	ctx, span := tracer.Start(ctx, "engine.SelectDifficulty", trace.WithAttributes(
		attribute.String("session.id", e.id),
		attribute.String("game.difficulty", string(d)),
	))
	defer span.End()

	if !d.IsValid() {
		err := fmt.Errorf("difficulty %q: %w", d, game.ErrUnknownDifficulty)
		recordRejection(span, err)
		return err
	}

	e.mu.Lock()
	if e.closed || (e.state != AwaitingDifficulty && e.state != GameOver) {
		err := e.illegalLocked("select difficulty")
		e.mu.Unlock()
		recordRejection(span, err)
		return err
	}
	e.startGameLocked(d)
	slog.InfoContext(ctx, "difficulty selected", "session.id", e.id, "difficulty", d)
	e.unlockAndEmit(ctx, nil)
	return nil
}

// SubmitHumanMove places the human's mark and, if the game goes on, schedules the computer's answer.
// Moves outside the human's turn or on an unavailable square leave the game untouched.
func (e *Engine) SubmitHumanMove(ctx context.Context, square int) error {
	ctx, span := tracer.Start(ctx, "engine.SubmitHumanMove", trace.WithAttributes(
		attribute.String("session.id", e.id),
		attribute.Int("move.square", square),
	))
	defer span.End()

	e.mu.Lock()
	if e.closed || e.state != HumanTurn {
		err := e.illegalLocked("human move")
		e.mu.Unlock()
		recordRejection(span, err)
		return err
	}
	if err := e.board.Place(game.Human, square); err != nil {
		e.mu.Unlock()
		recordRejection(span, err)
		return err
	}
	span.SetAttributes(attribute.Bool("move.valid", true))
	recordMove(ctx, game.Human)

	e.lastMove = &game.Move{Mark: game.Human, Square: square}
	notes := []events.Event{events.Moved(e.id, game.Human, square)}
	notes = append(notes, e.advanceLocked(ctx, game.Human)...)
	e.unlockAndEmit(ctx, notes)
	return nil
}

// StartNewGame discards the current game, including a pending computer move, and waits for a
// difficulty again. It is accepted in every state.
func (e *Engine) StartNewGame(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "engine.StartNewGame", trace.WithAttributes(
		attribute.String("session.id", e.id),
	))
	defer span.End()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.cancelPendingLocked()
	e.board.Reset()
	e.lastMove = nil
	e.difficulty = ""
	e.state = AwaitingDifficulty
	slog.InfoContext(ctx, "new game", "session.id", e.id)
	e.unlockAndEmit(ctx, nil)
}

// Rematch starts another game at the same difficulty. Only valid once a game is over.
func (e *Engine) Rematch(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "engine.Rematch", trace.WithAttributes(
		attribute.String("session.id", e.id),
	))
	defer span.End()

	e.mu.Lock()
	if e.closed || e.state != GameOver {
		err := e.illegalLocked("rematch")
		e.mu.Unlock()
		recordRejection(span, err)
		return err
	}
	e.startGameLocked(e.difficulty)
	slog.InfoContext(ctx, "rematch", "session.id", e.id, "difficulty", e.difficulty)
	e.unlockAndEmit(ctx, nil)
	return nil
}

// Close drops any pending computer move and closes the Updates channel. Later calls are rejected.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cancelPendingLocked()
	e.emitMu.Lock()
	e.mu.Unlock()
	close(e.updates)
	e.emitMu.Unlock()
}

// computerTurn runs on the scheduler once the thinking delay elapsed. A generation mismatch means the
// game it was scheduled for has been discarded.
func (e *Engine) computerTurn(ctx context.Context, generation uint64) {
	ctx, span := tracer.Start(ctx, "engine.computerTurn", trace.WithAttributes(
		attribute.String("session.id", e.id),
	))
	defer span.End()

	e.mu.Lock()
	if e.closed || generation != e.generation || e.state != ComputerThinking {
		e.mu.Unlock()
		span.SetAttributes(attribute.Bool("move.stale", true))
		return
	}
	e.pending = nil

	square := e.calculator.CalculateNextMove(e.board, e.difficulty)
	if err := e.board.Place(game.Computer, square); err != nil {
		// The calculator broke its contract; keep the game playable.
		slog.ErrorContext(ctx, "computer picked an unavailable square", "session.id", e.id, "square", square, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Computer picked an unavailable square")
		square = e.board.AvailableSquares()[0]
		_ = e.board.Place(game.Computer, square)
	}
	span.SetAttributes(attribute.Int("move.square", square))
	recordMove(ctx, game.Computer)

	e.lastMove = &game.Move{Mark: game.Computer, Square: square}
	notes := []events.Event{events.Moved(e.id, game.Computer, square)}
	notes = append(notes, e.advanceLocked(ctx, game.Computer)...)
	e.unlockAndEmit(ctx, notes)
}

// advanceLocked evaluates the board after last moved and moves to the next state.
func (e *Engine) advanceLocked(ctx context.Context, last game.Mark) []events.Event {
	outcome := e.board.OutcomeAfter(last)
	if outcome.IsTerminal() {
		e.state = GameOver
		recordFinished(ctx, outcome, e.difficulty)
		slog.InfoContext(ctx, "game over", "session.id", e.id, "outcome", outcome, "difficulty", e.difficulty)
		finished, _ := events.Finished(e.id, outcome)
		return []events.Event{finished}
	}

	if last == game.Computer {
		e.state = HumanTurn
		return nil
	}

	e.state = ComputerThinking
	generation := e.generation
	turnCtx := trace.ContextWithSpanContext(context.Background(), trace.SpanContextFromContext(ctx))
	e.pending = e.scheduler.AfterFunc(e.delay, func() {
		e.computerTurn(turnCtx, generation)
	})
	return nil
}

func (e *Engine) startGameLocked(d game.Difficulty) {
	e.cancelPendingLocked()
	e.board.Reset()
	e.lastMove = nil
	e.difficulty = d
	e.state = HumanTurn
}

func (e *Engine) cancelPendingLocked() {
	e.generation++
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

func (e *Engine) illegalLocked(op string) error {
	if e.closed {
		return fmt.Errorf("%s on closed session: %w", op, game.ErrIllegalStateTransition)
	}
	return fmt.Errorf("%s in state %s: %w", op, e.state, game.ErrIllegalStateTransition)
}

func (e *Engine) snapshotLocked() Snapshot {
	outcome := game.InProgress
	if e.state == GameOver {
		outcome = e.board.Outcome()
	}
	var last *game.Move
	if e.lastMove != nil {
		m := *e.lastMove
		last = &m
	}
	return Snapshot{
		SessionID:  e.id,
		State:      e.state,
		Outcome:    outcome,
		Difficulty: e.difficulty,
		Board:      e.board.Squares(),
		LastMove:   last,
	}
}

// unlockAndEmit releases mu and delivers the notifications and the new snapshot. emitMu is acquired
// before mu is released so concurrent transitions publish in order.
func (e *Engine) unlockAndEmit(ctx context.Context, notes []events.Event) {
	snap := e.snapshotLocked()
	e.emitMu.Lock()
	e.mu.Unlock()
	defer e.emitMu.Unlock()

	for _, n := range notes {
		e.sink.Notify(ctx, n)
	}
	e.publish(snap)
}

// publish keeps only the newest snapshot in the buffer. Callers hold emitMu.
func (e *Engine) publish(snap Snapshot) {
	select {
	case e.updates <- snap:
		return
	default:
	}
	select {
	case <-e.updates:
	default:
	}
	select {
	case e.updates <- snap:
	default:
	}
}

func recordRejection(span trace.Span, err error) {
	span.SetAttributes(attribute.Bool("move.valid", false))
	span.RecordError(err)
	span.SetStatus(codes.Error, "Rejected")
}
