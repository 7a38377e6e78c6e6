package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jwpark-dev/cardtable/internal/api/handler"
	apimiddleware "github.com/jwpark-dev/cardtable/internal/api/middleware"
	"github.com/jwpark-dev/cardtable/internal/api/sse"
	"github.com/jwpark-dev/cardtable/internal/events"
	"github.com/jwpark-dev/cardtable/internal/middleware"
	"github.com/jwpark-dev/cardtable/internal/platform/identity"
	"github.com/jwpark-dev/cardtable/internal/services/lobby"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	Orchestrator lobby.OrchestratorInterface
	Identity     identity.Provider
	Bus          *events.Bus
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.Orchestrator)
	playerHandler := handler.NewPlayerHandler(cfg.Identity, cfg.Orchestrator)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(apimiddleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Session routes
	api.HandleFunc("/session", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/session", sessionHandler.Shutdown).Methods(http.MethodDelete)
	api.HandleFunc("/session/host", sessionHandler.CreateRoom).Methods(http.MethodPost)
	api.HandleFunc("/session/join", sessionHandler.JoinRoom).Methods(http.MethodPost)
	api.HandleFunc("/session/quickmatch", sessionHandler.QuickMatch).Methods(http.MethodPost)

	// Player routes
	api.HandleFunc("/player", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/player/name", playerHandler.SetName).Methods(http.MethodPut)

	// Event stream
	api.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		sse.ServeEvents(w, r, cfg.Bus)
	}).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
