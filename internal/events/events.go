// Package events publishes game lifecycle events for analytics consumers.
package events

import (
    "context"
    "time"
)

// Event types.
const (
    GameStarted  = "game_started"
    MovePlayed   = "move_played"
    GameFinished = "game_finished"
    GameReset    = "game_reset"
)

// Event is one lifecycle record. Zero-valued optional fields are omitted on
// the wire.
type Event struct {
    Type       string    `json:"event"`
    GameID     string    `json:"game_id"`
    Player     string    `json:"player,omitempty"`
    Difficulty string    `json:"difficulty,omitempty"`
    Side       string    `json:"side,omitempty"`
    Row        *int      `json:"row,omitempty"`
    Col        *int      `json:"col,omitempty"`
    Outcome    string    `json:"outcome,omitempty"`
    HumanWins  int       `json:"human_wins"`
    AIWins     int       `json:"ai_wins"`
    Draws      int       `json:"draws"`
    Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers events. Implementations must not block the caller for
// long and must be safe for concurrent use.
type Publisher interface {
    Publish(ctx context.Context, ev Event)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
