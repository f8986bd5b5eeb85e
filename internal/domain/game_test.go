package domain

import (
    "errors"
    "testing"
)

// helper to apply a sequence of moves
func playMoves(t *testing.T, g *Game, moves [][2]int) {
    t.Helper()
    for i, m := range moves {
        if err := g.Play(m[0], m[1]); err != nil {
            t.Fatalf("move %d (%v) failed: %v", i, m, err)
        }
    }
}

var winningLines = [][][2]int{
    // rows
    {{0, 0}, {0, 1}, {0, 2}},
    {{1, 0}, {1, 1}, {1, 2}},
    {{2, 0}, {2, 1}, {2, 2}},
    // cols
    {{0, 0}, {1, 0}, {2, 0}},
    {{0, 1}, {1, 1}, {2, 1}},
    {{0, 2}, {1, 2}, {2, 2}},
    // diags
    {{0, 0}, {1, 1}, {2, 2}},
    {{0, 2}, {1, 1}, {2, 0}},
}

func onLine(line [][2]int, f [2]int) bool {
    return f == line[0] || f == line[1] || f == line[2]
}

func TestNewGameInitialState(t *testing.T) {
    g := New()
    if g.Turn != Human {
        t.Fatalf("expected initial turn Human, got %v", g.Turn)
    }
    if g.Moves != 0 {
        t.Fatalf("expected 0 moves, got %d", g.Moves)
    }
    if g.Over {
        t.Fatalf("expected game not over")
    }
    if g.Winner != Empty {
        t.Fatalf("expected no winner, got %v", g.Winner)
    }
    for i, c := range g.Board {
        if c != Empty {
            t.Fatalf("expected empty board, cell %d = %v", i, c)
        }
    }
}

func TestPlayOutOfBounds(t *testing.T) {
    g := New()
    cases := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}}
    for _, m := range cases {
        if err := g.Play(m[0], m[1]); !errors.Is(err, ErrOutOfBounds) {
            t.Fatalf("expected ErrOutOfBounds for %v, got %v", m, err)
        }
    }
}

func TestPlayOccupied(t *testing.T) {
    g := New()
    if err := g.Play(0, 0); err != nil {
        t.Fatalf("first move failed: %v", err)
    }
    if err := g.Play(0, 0); !errors.Is(err, ErrOccupied) {
        t.Fatalf("expected ErrOccupied on same cell, got %v", err)
    }
    if g.Board.At(0, 0) != Human || g.Turn != AI {
        t.Fatalf("rejected move must not change state")
    }
}

func TestPlayAsWrongSide(t *testing.T) {
    g := New()
    if err := g.PlayAs(AI, Move{Row: 1, Col: 1}); !errors.Is(err, ErrNotYourTurn) {
        t.Fatalf("expected ErrNotYourTurn, got %v", err)
    }
    if err := g.PlayAs(Human, Move{Row: 1, Col: 1}); err != nil {
        t.Fatalf("human move failed: %v", err)
    }
    if err := g.PlayAs(Human, Move{Row: 0, Col: 0}); !errors.Is(err, ErrNotYourTurn) {
        t.Fatalf("expected ErrNotYourTurn for second human move, got %v", err)
    }
}

func TestTurnFlipsAfterValidMove(t *testing.T) {
    g := New()
    if err := g.Play(1, 1); err != nil {
        t.Fatalf("move failed: %v", err)
    }
    if g.Turn != AI {
        t.Fatalf("expected turn to flip to AI, got %v", g.Turn)
    }
}

func TestWinConditionsForHuman(t *testing.T) {
    filler := [][2]int{{1, 2}, {2, 1}, {1, 0}, {2, 0}, {0, 2}, {0, 1}}
    for _, line := range winningLines {
        g := New()
        seq := make([][2]int, 0, 5)
        // Human, AI, Human, AI, Human on the line
        seq = append(seq, line[0])
        for _, f := range filler {
            if !onLine(line, f) {
                seq = append(seq, f)
                break
            }
        }
        seq = append(seq, line[1])
        for _, f := range filler {
            if !onLine(line, f) && f != seq[1] {
                seq = append(seq, f)
                break
            }
        }
        seq = append(seq, line[2])

        playMoves(t, &g, seq)
        if !g.Over || g.Winner != Human {
            t.Fatalf("expected Human to win on line %v; over=%v winner=%v", line, g.Over, g.Winner)
        }
        if g.Outcome() != HumanWins {
            t.Fatalf("expected outcome human_wins, got %v", g.Outcome())
        }
        if g.Moves != 5 {
            t.Fatalf("expected 5 moves to win, got %d", g.Moves)
        }
    }
}

func TestWinConditionsForAI(t *testing.T) {
    // Human plays fillers, AI plays the line cells.
    fillers := [][2]int{{1, 2}, {2, 1}, {1, 0}, {2, 0}, {0, 2}, {0, 1}, {2, 2}, {1, 1}}
    for _, line := range winningLines {
        var picked [][2]int
        for _, f := range fillers {
            if !onLine(line, f) {
                picked = append(picked, f)
            }
            if len(picked) == 3 {
                break
            }
        }
        seq := [][2]int{picked[0], line[0], picked[1], line[1], picked[2], line[2]}

        g := New()
        playMoves(t, &g, seq)
        if !g.Over || g.Winner != AI {
            t.Fatalf("expected AI to win on line %v; over=%v winner=%v", line, g.Over, g.Winner)
        }
        if g.Moves != 6 {
            t.Fatalf("expected 6 moves to win for AI, got %d", g.Moves)
        }
    }
}

func TestDrawNoWinner(t *testing.T) {
    g := New()
    seq := [][2]int{
        {0, 0}, {0, 1}, {0, 2},
        {1, 1}, {1, 0}, {1, 2},
        {2, 1}, {2, 0}, {2, 2},
    }
    playMoves(t, &g, seq)
    if !g.Over {
        t.Fatalf("expected game over on draw")
    }
    if g.Winner != Empty {
        t.Fatalf("expected no winner on draw, got %v", g.Winner)
    }
    if g.Outcome() != Draw {
        t.Fatalf("expected draw outcome, got %v", g.Outcome())
    }
    if g.Moves != 9 {
        t.Fatalf("expected 9 moves on draw, got %d", g.Moves)
    }
}

func TestGameOverBlocksFurtherMoves(t *testing.T) {
    g := New()
    seq := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}}
    playMoves(t, &g, seq)
    if !g.Over || g.Winner != Human {
        t.Fatalf("expected Human win before extra move")
    }
    if err := g.Play(2, 2); !errors.Is(err, ErrGameOver) {
        t.Fatalf("expected ErrGameOver, got %v", err)
    }
}
