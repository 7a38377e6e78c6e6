package model

import "time"

// PlayerID uniquely identifies a player. It is assigned by the identity
// provider at first sign-in and never changes afterwards.
type PlayerID string

// PlayerIdentity represents a signed-in player
type PlayerIdentity struct {
	ID            PlayerID
	DisplayName   string
	Authenticated bool
	SignedInAt    time.Time
}
