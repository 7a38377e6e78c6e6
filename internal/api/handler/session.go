package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jwpark-dev/cardtable/internal/api/apierr"
	"github.com/jwpark-dev/cardtable/internal/api/request"
	"github.com/jwpark-dev/cardtable/internal/api/response"
	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/services/lobby"
)

// SessionHandler handles session lifecycle endpoints. Commands return
// 202 Accepted; their outcomes arrive on the event stream.
type SessionHandler struct {
	orchestrator lobby.OrchestratorInterface
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(orchestrator lobby.OrchestratorInterface) *SessionHandler {
	return &SessionHandler{orchestrator: orchestrator}
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.SessionFromModel(
		h.orchestrator.State(),
		h.orchestrator.SessionState(),
	))
}

// CreateRoom handles POST /api/v1/session/host
func (h *SessionHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for a room with default settings
		req = request.CreateRoomRequest{}
	}

	meta := model.RoomMetadata{
		Name:     req.Name,
		Private:  req.Private,
		Password: req.Password,
	}
	if err := h.orchestrator.CreateRoom(r.Context(), meta); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.Accepted{Accepted: true})
}

// JoinRoom handles POST /api/v1/session/join
func (h *SessionHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.orchestrator.JoinRoom(r.Context(), model.JoinCode(req.JoinCode)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.Accepted{Accepted: true})
}

// QuickMatch handles POST /api/v1/session/quickmatch
func (h *SessionHandler) QuickMatch(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.StartQuickMatch(r.Context()); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.Accepted{Accepted: true})
}

// Shutdown handles DELETE /api/v1/session
func (h *SessionHandler) Shutdown(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.ShutdownSession(r.Context()); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.Accepted{Accepted: true})
}
