// Package engine picks the computer's move with a depth-limited minimax
// search and alpha-beta pruning.
package engine

import (
    "math/rand"
    "sync"
    "time"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

// randomPlayChance is how often Easy skips the search and plays any empty cell.
const randomPlayChance = 0.5

// Engine chooses moves for the AI side. It holds no game state; the only
// shared field is the random source used by Easy, which is locked.
type Engine struct {
    mu  sync.Mutex
    rng *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the random source, mainly so tests can seed it.
func WithRand(r *rand.Rand) Option {
    return func(e *Engine) { e.rng = r }
}

// New returns an engine seeded from the clock unless WithRand is given.
func New(opts ...Option) *Engine {
    e := &Engine{}
    for _, o := range opts {
        o(e)
    }
    if e.rng == nil {
        e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
    }
    return e
}

// ChooseMove returns the AI's move for b at difficulty d, or false when no
// cell is empty. Probes are placed and retracted on b itself, so b must not
// be touched by anyone else until ChooseMove returns; on return it holds
// exactly what it held before the call.
func (e *Engine) ChooseMove(b *domain.Board, d Difficulty) (domain.Move, bool) {
    empty := b.EmptyCells()
    if len(empty) == 0 {
        return domain.Move{}, false
    }
    if d == Easy {
        if m, ok := e.randomMove(empty); ok {
            return m, true
        }
    }
    return BestMove(b, d.DepthLimit())
}

func (e *Engine) randomMove(empty []domain.Move) (domain.Move, bool) {
    e.mu.Lock()
    defer e.mu.Unlock()
    if e.rng.Float64() >= randomPlayChance {
        return domain.Move{}, false
    }
    return empty[e.rng.Intn(len(empty))], true
}
