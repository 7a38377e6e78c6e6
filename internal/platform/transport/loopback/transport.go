package loopback

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/platform/transport"
)

// Errors returned by the loopback transport
var (
	ErrNotConfigured   = errors.New("transport is not configured")
	ErrRoleActive      = errors.New("transport already has an active role")
	ErrNoHostListening = errors.New("no host is listening for this allocation")
)

// Network is an in-process switchboard pairing loopback transports by
// allocation. It stands in for the relay's data plane in tests and
// single-process play.
type Network struct {
	mu    sync.Mutex
	hosts map[model.AllocationID]*Transport
}

// NewNetwork creates a new loopback network
func NewNetwork() *Network {
	return &Network{
		hosts: make(map[model.AllocationID]*Transport),
	}
}

// NewTransport creates a transport attached to this network
func (n *Network) NewTransport() *Transport {
	return &Transport{
		network: n,
		role:    model.RoleNone,
		peers:   make(map[model.ConnectionID]*Transport),
	}
}

// Transport is an in-process transport implementation. Peer callbacks are
// delivered synchronously on the goroutine driving the transition.
type Transport struct {
	network *Network

	mu     sync.Mutex
	cb     transport.Callbacks
	info   *model.ConnectionInfo
	role   model.SessionRole
	peers  map[model.ConnectionID]*Transport
	host   *Transport
	connID model.ConnectionID
}

// Ensure Transport implements the contract
var _ transport.Transport = (*Transport)(nil)

// SetCallbacks registers peer lifecycle callbacks
func (t *Transport) SetCallbacks(cb transport.Callbacks) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb = cb
}

// Configure supplies the relay connection parameters for the next start
func (t *Transport) Configure(info model.ConnectionInfo) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.role == model.RoleHost || t.role == model.RoleClient {
		return ErrRoleActive
	}
	t.info = &info
	return nil
}

// StartHost begins accepting loopback connections for the configured
// allocation
func (t *Transport) StartHost(ctx context.Context) error {
	t.mu.Lock()
	if t.info == nil {
		t.mu.Unlock()
		return ErrNotConfigured
	}
	if t.role == model.RoleHost || t.role == model.RoleClient {
		t.mu.Unlock()
		return ErrRoleActive
	}
	allocID := t.info.AllocationID
	t.role = model.RoleHost
	t.mu.Unlock()

	t.network.mu.Lock()
	t.network.hosts[allocID] = t
	t.network.mu.Unlock()

	return nil
}

// StartClient attaches to the host serving the configured allocation
func (t *Transport) StartClient(ctx context.Context) error {
	t.mu.Lock()
	if t.info == nil {
		t.mu.Unlock()
		return ErrNotConfigured
	}
	if t.role == model.RoleHost || t.role == model.RoleClient {
		t.mu.Unlock()
		return ErrRoleActive
	}
	allocID := t.info.AllocationID
	cb := t.cb
	t.mu.Unlock()

	t.network.mu.Lock()
	host, ok := t.network.hosts[allocID]
	t.network.mu.Unlock()
	if !ok {
		return ErrNoHostListening
	}

	id := model.ConnectionID(uuid.NewString())

	t.mu.Lock()
	t.role = model.RoleClient
	t.host = host
	t.connID = id
	t.mu.Unlock()

	host.attachPeer(id, t)

	if cb.OnPeerConnected != nil {
		cb.OnPeerConnected(id)
	}
	return nil
}

// Stop tears down the active role and notifies the other side
func (t *Transport) Stop(ctx context.Context) error {
	t.mu.Lock()
	role := t.role
	info := t.info
	host := t.host
	connID := t.connID
	peers := make(map[model.ConnectionID]*Transport, len(t.peers))
	for id, p := range t.peers {
		peers[id] = p
	}
	t.role = model.RoleNone
	t.info = nil
	t.host = nil
	t.connID = ""
	t.peers = make(map[model.ConnectionID]*Transport)
	t.mu.Unlock()

	switch role {
	case model.RoleHost:
		if info != nil {
			t.network.mu.Lock()
			delete(t.network.hosts, info.AllocationID)
			t.network.mu.Unlock()
		}
		for id, peer := range peers {
			peer.hostClosed(id)
		}
	case model.RoleClient:
		if host != nil {
			host.detachPeer(connID)
		}
	}
	return nil
}

// attachPeer registers a client on the host side and fires its callback
func (t *Transport) attachPeer(id model.ConnectionID, peer *Transport) {
	t.mu.Lock()
	t.peers[id] = peer
	cb := t.cb
	t.mu.Unlock()

	if cb.OnPeerConnected != nil {
		cb.OnPeerConnected(id)
	}
}

// detachPeer removes a client on the host side and fires its callback
func (t *Transport) detachPeer(id model.ConnectionID) {
	t.mu.Lock()
	_, ok := t.peers[id]
	delete(t.peers, id)
	cb := t.cb
	t.mu.Unlock()

	if ok && cb.OnPeerDisconnected != nil {
		cb.OnPeerDisconnected(id)
	}
}

// hostClosed notifies a client that its host went away
func (t *Transport) hostClosed(id model.ConnectionID) {
	t.mu.Lock()
	cb := t.cb
	t.host = nil
	t.mu.Unlock()

	if cb.OnPeerDisconnected != nil {
		cb.OnPeerDisconnected(id)
	}
}
