package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrNotSignedIn     = errors.New("player is not signed in")
	ErrEmptyPlayerName = errors.New("player name must not be empty")

	// Session errors
	ErrEmptyJoinCode      = errors.New("join code must not be empty")
	ErrAlreadyConnected   = errors.New("a session is already connected")
	ErrNotConnected       = errors.New("no session is connected")
	ErrStartInProgress    = errors.New("a session start is already in flight")
	ErrAllocationNotFound = errors.New("allocation not found")
	ErrAllocationFull     = errors.New("allocation has no free slots")

	// Lobby errors
	ErrLobbyNotReady = errors.New("lobby is not ready")

	// Bootstrap errors
	ErrAlreadyInitialized = errors.New("services already initialized")
	ErrInitInProgress     = errors.New("initialization is already in flight")
)
