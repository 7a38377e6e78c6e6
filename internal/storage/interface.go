package storage

import (
	"context"

	"github.com/jwpark-dev/cardtable/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player identity operations
	SavePlayer(ctx context.Context, player *model.PlayerIdentity) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerIdentity, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Relay allocation operations
	SaveAllocation(ctx context.Context, alloc *model.Allocation) error
	GetAllocationByCode(ctx context.Context, code model.JoinCode) (*model.Allocation, error)
	DeleteAllocation(ctx context.Context, code model.JoinCode) error
	AllocationExists(ctx context.Context, code model.JoinCode) (bool, error)
}
