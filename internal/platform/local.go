package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwpark-dev/cardtable/internal/storage"
)

// Local provides the backing platform services for an in-process
// deployment: the core service is the storage backend, and multiplayer
// capability needs no separate bring-up.
type Local struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewLocal creates a new Local platform
func NewLocal(store storage.Storage, logger *slog.Logger) *Local {
	return &Local{
		storage: store,
		logger:  logger.With(slog.String("component", "platform")),
	}
}

// InitializeCore verifies the storage backend is reachable
func (l *Local) InitializeCore(ctx context.Context) error {
	if _, err := l.storage.AllocationExists(ctx, "__healthcheck__"); err != nil {
		return fmt.Errorf("storage unreachable: %w", err)
	}
	l.logger.Info("core service initialized")
	return nil
}

// InitializeMultiplayer brings up multiplayer capability. In-process play
// has nothing further to start.
func (l *Local) InitializeMultiplayer(ctx context.Context) error {
	l.logger.Info("multiplayer service initialized")
	return nil
}
