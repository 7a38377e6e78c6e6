package relay

import (
	"context"

	"github.com/jwpark-dev/cardtable/internal/model"
)

// Relay brokers rendezvous allocations so two peers can exchange traffic
// without either exposing a public address directly
type Relay interface {
	// CreateAllocation reserves a rendezvous slot with the given number of
	// remote peer slots in a region and returns its connection parameters
	CreateAllocation(ctx context.Context, slots int, region string) (model.AllocationID, *model.ConnectionInfo, error)

	// GetJoinCode returns the join code for an allocation created by this
	// process
	GetJoinCode(ctx context.Context, id model.AllocationID) (model.JoinCode, error)

	// JoinAllocation resolves a join code to the connection parameters of
	// its allocation
	JoinAllocation(ctx context.Context, code model.JoinCode) (*model.ConnectionInfo, error)
}
