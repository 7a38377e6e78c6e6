package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Bootstrap events
	EventInitComplete EventType = "initialization_complete"
	EventInitFailed   EventType = "initialization_failed"

	// Lobby events
	EventLobbyError        EventType = "lobby_error"
	EventRoomCreated       EventType = "room_created"
	EventRoomJoined        EventType = "room_joined"
	EventQuickMatchStarted EventType = "quick_match_started"
	EventPlayerNameChanged EventType = "player_name_changed"

	// Session events
	EventHostStarted        EventType = "host_started"
	EventClientConnected    EventType = "client_connected"
	EventClientDisconnected EventType = "client_disconnected"
	EventConnectionFailed   EventType = "connection_failed"
	EventSessionShutdown    EventType = "session_shutdown"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	PlayerID  PlayerID // The player who triggered or is affected, if any
	JoinCode  JoinCode // Empty for events outside a session
	Payload   any      // Type-specific data
}

// InitFailedPayload contains data for initialization failed events
type InitFailedPayload struct {
	Reason string
}

// LobbyErrorPayload contains data for lobby error events
type LobbyErrorPayload struct {
	Reason string
}

// RoomCreatedPayload contains data for room created events
type RoomCreatedPayload struct {
	JoinCode JoinCode
	Metadata RoomMetadata
}

// RoomJoinedPayload contains data for room joined events
type RoomJoinedPayload struct {
	JoinCode JoinCode
}

// HostStartedPayload contains data for host started events
type HostStartedPayload struct {
	JoinCode JoinCode
}

// PeerPayload contains data for client connected/disconnected events
type PeerPayload struct {
	ConnectionID ConnectionID
	PeerCount    int
}

// ConnectionFailedPayload contains data for connection failed events
type ConnectionFailedPayload struct {
	Reason string
}

// PlayerNameChangedPayload contains data for player name changed events
type PlayerNameChangedPayload struct {
	Name string
}
