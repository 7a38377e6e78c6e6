package request

// CreateRoomRequest is the body for POST /api/v1/session/host
type CreateRoomRequest struct {
	Name     string `json:"name"`
	Private  bool   `json:"private"`
	Password string `json:"password"`
}

// JoinRoomRequest is the body for POST /api/v1/session/join
type JoinRoomRequest struct {
	JoinCode string `json:"join_code"`
}

// SetPlayerNameRequest is the body for PUT /api/v1/player/name
type SetPlayerNameRequest struct {
	Name string `json:"name"`
}
