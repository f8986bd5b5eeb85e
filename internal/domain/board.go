package domain

import "fmt"

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    Human
    AI
)

// String returns the mark drawn for the cell: X for the human, O for the AI.
func (c Cell) String() string {
    switch c {
    case Human:
        return "X"
    case AI:
        return "O"
    default:
        return ""
    }
}

// ParseCell is the inverse of Cell.String. Blank and "." both mean Empty.
func ParseCell(s string) (Cell, error) {
    switch s {
    case "", ".":
        return Empty, nil
    case "X", "x":
        return Human, nil
    case "O", "o":
        return AI, nil
    }
    return Empty, fmt.Errorf("unknown mark %q", s)
}

// Opponent returns the other side, Empty for Empty.
func (c Cell) Opponent() Cell {
    switch c {
    case Human:
        return AI
    case AI:
        return Human
    }
    return Empty
}

// WinScore is the static value of a completed line, positive when the AI owns it.
const WinScore = 10

// Move addresses a single cell, row and column in [0,2].
type Move struct {
    Row int `json:"row"`
    Col int `json:"col"`
}

// InBounds reports whether the move addresses a cell on the board.
func (m Move) InBounds() bool {
    return m.Row >= 0 && m.Row <= 2 && m.Col >= 0 && m.Col <= 2
}

func (m Move) index() int { return m.Row*3 + m.Col }

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// lines lists the eight winning lines in scan order: row i then column i,
// followed by the two diagonals.
var lines = [8][3]int{
    {0, 1, 2}, {0, 3, 6},
    {3, 4, 5}, {1, 4, 7},
    {6, 7, 8}, {2, 5, 8},
    {0, 4, 8}, {2, 4, 6},
}

// At returns the cell at row r, column c.
func (b *Board) At(r, c int) Cell { return b[r*3+c] }

// Place puts mark on an empty cell. Placing on an occupied cell is a caller
// bug and panics.
func (b *Board) Place(m Move, mark Cell) {
    if b[m.index()] != Empty {
        panic(fmt.Sprintf("domain: place %v on occupied cell (%d,%d)", mark, m.Row, m.Col))
    }
    b[m.index()] = mark
}

// Clear empties the cell again.
func (b *Board) Clear(m Move) { b[m.index()] = Empty }

// HasMovesLeft reports whether at least one cell is empty.
func (b *Board) HasMovesLeft() bool {
    for _, c := range b {
        if c == Empty {
            return true
        }
    }
    return false
}

// EmptyCells lists the empty cells in row-major order.
func (b *Board) EmptyCells() []Move {
    out := make([]Move, 0, 9)
    for i, c := range b {
        if c == Empty {
            out = append(out, Move{Row: i / 3, Col: i % 3})
        }
    }
    return out
}

// Count returns how many cells hold mark.
func (b *Board) Count(mark Cell) int {
    n := 0
    for _, c := range b {
        if c == mark {
            n++
        }
    }
    return n
}

// Winner returns the owner of the first completed line, or Empty.
func (b *Board) Winner() Cell {
    for _, ln := range lines {
        if v := b[ln[0]]; v != Empty && v == b[ln[1]] && v == b[ln[2]] {
            return v
        }
    }
    return Empty
}

// Evaluate is the static score: +WinScore for an AI line, -WinScore for a
// human line, 0 otherwise. A zero does not mean the game is over; check
// HasMovesLeft for that.
func (b *Board) Evaluate() int {
    switch b.Winner() {
    case AI:
        return WinScore
    case Human:
        return -WinScore
    }
    return 0
}

// Outcome classifies a board for the caller.
type Outcome uint8

const (
    InProgress Outcome = iota
    HumanWins
    AIWins
    Draw
)

func (o Outcome) String() string {
    switch o {
    case HumanWins:
        return "human_wins"
    case AIWins:
        return "ai_wins"
    case Draw:
        return "draw"
    }
    return "in_progress"
}

// Outcome reports whether the board is terminal and who won.
func (b *Board) Outcome() Outcome {
    switch b.Winner() {
    case Human:
        return HumanWins
    case AI:
        return AIWins
    }
    if !b.HasMovesLeft() {
        return Draw
    }
    return InProgress
}
