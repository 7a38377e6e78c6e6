package model

import "time"

// JoinCode is the short opaque code identifying a relay allocation.
// A second peer presents it to connect to the first.
type JoinCode string

// AllocationID uniquely identifies a relay allocation
type AllocationID string

// ConnectionID is the transport's opaque identifier for a connected peer
type ConnectionID string

// SessionRole is the role a process holds in a network session
type SessionRole string

const (
	RoleNone   SessionRole = "none"
	RoleHost   SessionRole = "host"
	RoleClient SessionRole = "client"
)

// SessionState is the observable state of the process-wide network session.
// At most one of host or client role holds at any time, and a connected
// session always has a role.
type SessionState struct {
	Role           SessionRole
	Connected      bool
	JoinCode       JoinCode
	ConnectedPeers int
}

// DefaultSessionState returns the state a session holds before any
// host/client start and after a shutdown
func DefaultSessionState() SessionState {
	return SessionState{
		Role:           RoleNone,
		Connected:      false,
		JoinCode:       "",
		ConnectedPeers: 0,
	}
}

// ConnectionInfo carries the relay parameters a transport needs to reach
// an allocation
type ConnectionInfo struct {
	AllocationID AllocationID
	Endpoint     string
	Region       string
}

// Allocation is a relay rendezvous slot brokered for a host
type Allocation struct {
	ID        AllocationID
	JoinCode  JoinCode
	Endpoint  string
	Region    string
	Slots     int
	CreatedAt time.Time
}

// RoomMetadata carries the room parameters accepted at room creation.
// It is passed through to the session layer opaquely; nothing consumes the
// fields there yet.
type RoomMetadata struct {
	Name     string
	Private  bool
	Password string
}
