package engine

import (
    "errors"
    "fmt"
    "strings"
)

// Difficulty caps how far the engine looks ahead.
type Difficulty uint8

const (
    Easy Difficulty = iota
    Medium
    Hard
)

// ErrUnknownDifficulty is returned by ParseDifficulty.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// depthLimits is the search horizon in plies per difficulty. Nine covers
// every remaining move on a 3x3 board.
var depthLimits = [...]int{
    Easy:   1,
    Medium: 3,
    Hard:   9,
}

// Difficulties lists every level, easiest first.
func Difficulties() []Difficulty { return []Difficulty{Easy, Medium, Hard} }

// DepthLimit returns the search horizon for d.
func (d Difficulty) DepthLimit() int {
    if int(d) >= len(depthLimits) {
        return depthLimits[Hard]
    }
    return depthLimits[d]
}

func (d Difficulty) String() string {
    switch d {
    case Easy:
        return "Easy"
    case Medium:
        return "Medium"
    case Hard:
        return "Hard"
    }
    return fmt.Sprintf("Difficulty(%d)", uint8(d))
}

// ParseDifficulty accepts the level names case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "easy":
        return Easy, nil
    case "medium":
        return Medium, nil
    case "hard":
        return Hard, nil
    }
    return Hard, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
    return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(b []byte) error {
    v, err := ParseDifficulty(string(b))
    if err != nil {
        return err
    }
    *d = v
    return nil
}
