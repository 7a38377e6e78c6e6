package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jwpark-dev/cardtable/internal/api/apierr"
	"github.com/jwpark-dev/cardtable/internal/api/request"
	"github.com/jwpark-dev/cardtable/internal/api/response"
	"github.com/jwpark-dev/cardtable/internal/platform/identity"
	"github.com/jwpark-dev/cardtable/internal/services/lobby"
)

// PlayerHandler handles player identity endpoints
type PlayerHandler struct {
	identity     identity.Provider
	orchestrator lobby.OrchestratorInterface
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(provider identity.Provider, orchestrator lobby.OrchestratorInterface) *PlayerHandler {
	return &PlayerHandler{
		identity:     provider,
		orchestrator: orchestrator,
	}
}

// Get handles GET /api/v1/player
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	player, err := h.identity.Current()
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// SetName handles PUT /api/v1/player/name
func (h *PlayerHandler) SetName(w http.ResponseWriter, r *http.Request) {
	var req request.SetPlayerNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.orchestrator.SetPlayerName(r.Context(), req.Name); err != nil {
		apierr.WriteError(w, err)
		return
	}

	player, err := h.identity.Current()
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}
