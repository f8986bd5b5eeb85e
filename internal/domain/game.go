package domain

import "errors"

// Game holds the current state of a human vs AI match. The human always
// moves first.
type Game struct {
    Board  Board
    Turn   Cell
    Winner Cell
    Over   bool
    Moves  int
}

// Errors returned by domain operations.
var (
    ErrOutOfBounds = errors.New("out of bounds")
    ErrOccupied    = errors.New("cell occupied")
    ErrGameOver    = errors.New("game over")
    ErrNotYourTurn = errors.New("not your turn")
)

// New returns a new game with the human to move.
func New() Game {
    return Game{Turn: Human}
}

// Play attempts to play the current turn at row r, column c (0..2).
func (g *Game) Play(r, c int) error {
    return g.PlayAs(g.Turn, Move{Row: r, Col: c})
}

// PlayAs plays m for side, failing if it is not side's turn.
func (g *Game) PlayAs(side Cell, m Move) error {
    if g.Over {
        return ErrGameOver
    }
    if side != g.Turn {
        return ErrNotYourTurn
    }
    if !m.InBounds() {
        return ErrOutOfBounds
    }
    if g.Board.At(m.Row, m.Col) != Empty {
        return ErrOccupied
    }

    g.Board.Place(m, side)
    g.Moves++

    switch g.Board.Outcome() {
    case HumanWins, AIWins:
        g.Winner = side
        g.Over = true
        return nil
    case Draw:
        g.Winner = Empty
        g.Over = true
        return nil
    }

    g.Turn = side.Opponent()
    return nil
}

// Outcome reports the game result so far.
func (g *Game) Outcome() Outcome {
    return g.Board.Outcome()
}
