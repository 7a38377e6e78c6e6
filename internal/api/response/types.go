package response

import (
	"time"

	"github.com/jwpark-dev/cardtable/internal/model"
)

// Player represents a player identity in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PlayerFromModel converts a model.PlayerIdentity to a response Player
func PlayerFromModel(p *model.PlayerIdentity) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
	}
}

// Session represents the combined lobby and session state
type Session struct {
	Phase          string `json:"phase"`
	Ready          bool   `json:"ready"`
	Role           string `json:"role"`
	Connected      bool   `json:"connected"`
	JoinCode       string `json:"join_code"`
	ConnectedPeers int    `json:"connected_peers"`
}

// SessionFromModel converts lobby and session state to a response Session
func SessionFromModel(lobby model.LobbyState, session model.SessionState) Session {
	return Session{
		Phase:          string(lobby.Phase),
		Ready:          lobby.Ready,
		Role:           string(session.Role),
		Connected:      session.Connected,
		JoinCode:       string(session.JoinCode),
		ConnectedPeers: session.ConnectedPeers,
	}
}

// Accepted is returned for commands whose outcome arrives via the event
// stream
type Accepted struct {
	Accepted bool `json:"accepted"`
}

// Event represents a lobby/session event on the SSE stream
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  string    `json:"player_id,omitempty"`
	JoinCode  string    `json:"join_code,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// EventFromModel converts a model.Event to a response Event
func EventFromModel(e model.Event) Event {
	return Event{
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
		PlayerID:  string(e.PlayerID),
		JoinCode:  string(e.JoinCode),
		Payload:   e.Payload,
	}
}
