package model

// LobbyPhase is a state of the lobby state machine
type LobbyPhase string

const (
	PhaseUninitialized LobbyPhase = "uninitialized"
	PhaseReady         LobbyPhase = "ready"
	PhaseHosting       LobbyPhase = "hosting"
	PhaseJoining       LobbyPhase = "joining"
	PhaseInSession     LobbyPhase = "in_session"
)

// LobbyState is the observable state of the lobby orchestrator
type LobbyState struct {
	Phase           LobbyPhase
	Ready           bool
	CurrentJoinCode JoinCode
}

// DefaultLobbyState returns the lobby state before bootstrap completes
func DefaultLobbyState() LobbyState {
	return LobbyState{
		Phase: PhaseUninitialized,
	}
}
