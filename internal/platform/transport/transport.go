package transport

import (
	"context"

	"github.com/jwpark-dev/cardtable/internal/model"
)

// Callbacks receives peer lifecycle notifications from a transport. The
// transport invokes them from its own goroutines; consumers serialize
// access to any state they mutate.
type Callbacks struct {
	// OnPeerConnected is invoked when a remote peer attaches, or when this
	// process's own client connection is accepted by a host
	OnPeerConnected func(id model.ConnectionID)

	// OnPeerDisconnected is invoked when a previously attached peer detaches
	OnPeerDisconnected func(id model.ConnectionID)
}

// Transport moves session traffic between relay-joined peers. A transport
// serves at most one role at a time; Configure must be called before a
// start, and Stop returns it to the unconfigured idle state.
type Transport interface {
	// SetCallbacks registers peer lifecycle callbacks. Must be called
	// before starting a role.
	SetCallbacks(cb Callbacks)

	// Configure supplies the relay connection parameters for the next
	// start
	Configure(info model.ConnectionInfo) error

	// StartHost begins accepting peer connections in the host role
	StartHost(ctx context.Context) error

	// StartClient connects to the configured allocation's host
	StartClient(ctx context.Context) error

	// Stop tears down the active role and drops all peers
	Stop(ctx context.Context) error
}
