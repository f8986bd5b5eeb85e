package app

import "github.com/google/uuid"

// newGameID returns a random UUIDv4 string for a new game.
func newGameID() string { return uuid.NewString() }

// NewPlayerID returns an opaque id for a browser or client that has none yet.
func NewPlayerID() string { return uuid.NewString() }
