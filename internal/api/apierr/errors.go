package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jwpark-dev/cardtable/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeNotSignedIn        = "NOT_SIGNED_IN"
	CodeLobbyNotReady      = "LOBBY_NOT_READY"
	CodeAlreadyConnected   = "ALREADY_CONNECTED"
	CodeNotConnected       = "NOT_CONNECTED"
	CodeStartInProgress    = "START_IN_PROGRESS"
	CodeAllocationNotFound = "ALLOCATION_NOT_FOUND"
	CodeAllocationFull     = "ALLOCATION_FULL"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeAlreadyInitialized = "ALREADY_INITIALIZED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrEmptyJoinCode):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Join code must not be empty"}}
	case errors.Is(err, model.ErrEmptyPlayerName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Player name must not be empty"}}
	case errors.Is(err, model.ErrLobbyNotReady):
		return &httpError{http.StatusConflict, APIError{CodeLobbyNotReady, "Lobby is not ready"}}
	case errors.Is(err, model.ErrAlreadyConnected):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyConnected, "A session is already connected"}}
	case errors.Is(err, model.ErrNotConnected):
		return &httpError{http.StatusConflict, APIError{CodeNotConnected, "No session is connected"}}
	case errors.Is(err, model.ErrStartInProgress):
		return &httpError{http.StatusConflict, APIError{CodeStartInProgress, "A session start is already in flight"}}
	case errors.Is(err, model.ErrAllocationNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAllocationNotFound, "No room found for that join code"}}
	case errors.Is(err, model.ErrAllocationFull):
		return &httpError{http.StatusConflict, APIError{CodeAllocationFull, "The room is full"}}
	case errors.Is(err, model.ErrPlayerNotFound), errors.Is(err, model.ErrNotSignedIn):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrAlreadyInitialized):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInitialized, "Services already initialized"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
