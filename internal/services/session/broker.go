package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jwpark-dev/cardtable/internal/dependencies/clock"
	"github.com/jwpark-dev/cardtable/internal/events"
	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/platform/relay"
	"github.com/jwpark-dev/cardtable/internal/platform/transport"
)

// Config holds configuration for the session broker
type Config struct {
	// MaxPlayers is the total session size including the host
	MaxPlayers int
	// Region is the relay region allocations are requested in
	Region string
	// RelayTimeout bounds each relay allocation/join call
	RelayTimeout time.Duration
}

// DefaultConfig returns default broker configuration for a two-player game
func DefaultConfig() Config {
	return Config{
		MaxPlayers:   2,
		Region:       "auto",
		RelayTimeout: 10 * time.Second,
	}
}

// Broker manages the single relay-backed network session of this process.
// It is the only component that mutates SessionState; outcomes surface as
// events on the bus.
type Broker struct {
	relay     relay.Relay
	transport transport.Transport
	bus       *events.Bus
	clock     clock.Clock
	logger    *slog.Logger
	cfg       Config

	mu       sync.Mutex
	state    model.SessionState
	starting bool
}

// NewBroker creates a new session Broker and registers itself for the
// transport's peer callbacks
func NewBroker(
	rly relay.Relay,
	tr transport.Transport,
	bus *events.Bus,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Broker {
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = DefaultConfig().MaxPlayers
	}
	if cfg.Region == "" {
		cfg.Region = DefaultConfig().Region
	}
	if cfg.RelayTimeout == 0 {
		cfg.RelayTimeout = DefaultConfig().RelayTimeout
	}

	b := &Broker{
		relay:     rly,
		transport: tr,
		bus:       bus,
		clock:     clk,
		logger:    logger.With(slog.String("component", "session")),
		cfg:       cfg,
		state:     model.DefaultSessionState(),
	}

	tr.SetCallbacks(transport.Callbacks{
		OnPeerConnected:    b.handlePeerConnected,
		OnPeerDisconnected: b.handlePeerDisconnected,
	})

	return b
}

// State returns a snapshot of the current session state
func (b *Broker) State() model.SessionState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// StartHost allocates a relay slot, obtains its join code and starts
// accepting connections in the host role. Room metadata is carried through
// opaquely; the relay layer does not consume it yet.
func (b *Broker) StartHost(ctx context.Context, meta model.RoomMetadata) (model.JoinCode, error) {
	if err := b.beginStart(); err != nil {
		return "", err
	}
	defer b.endStart()

	ctx, cancel := context.WithTimeout(ctx, b.cfg.RelayTimeout)
	defer cancel()

	allocID, info, err := b.relay.CreateAllocation(ctx, b.cfg.MaxPlayers-1, b.cfg.Region)
	if err != nil {
		return "", b.failConnection(fmt.Errorf("create allocation: %w", err))
	}

	code, err := b.relay.GetJoinCode(ctx, allocID)
	if err != nil {
		return "", b.failConnection(fmt.Errorf("get join code: %w", err))
	}

	if err := b.transport.Configure(*info); err != nil {
		return "", b.failConnection(fmt.Errorf("configure transport: %w", err))
	}

	if err := b.transport.StartHost(ctx); err != nil {
		return "", b.failConnection(fmt.Errorf("start host: %w", err))
	}

	b.mu.Lock()
	b.state = model.SessionState{
		Role:           model.RoleHost,
		Connected:      true,
		JoinCode:       code,
		ConnectedPeers: 1,
	}
	b.mu.Unlock()

	b.logger.Info("host started", slog.String("join_code", string(code)))
	b.publish(model.Event{
		Type:     model.EventHostStarted,
		JoinCode: code,
		Payload:  model.HostStartedPayload{JoinCode: code},
	})

	return code, nil
}

// StartClient joins the allocation identified by the join code and starts
// the client connection. Connection confirmation arrives asynchronously via
// the peer-connected callback; Connected stays false until then.
func (b *Broker) StartClient(ctx context.Context, code model.JoinCode) error {
	if code == "" {
		return model.ErrEmptyJoinCode
	}
	if err := b.beginStart(); err != nil {
		return err
	}
	defer b.endStart()

	ctx, cancel := context.WithTimeout(ctx, b.cfg.RelayTimeout)
	defer cancel()

	info, err := b.relay.JoinAllocation(ctx, code)
	if err != nil {
		return b.failConnection(fmt.Errorf("join allocation: %w", err))
	}

	if err := b.transport.Configure(*info); err != nil {
		return b.failConnection(fmt.Errorf("configure transport: %w", err))
	}

	// Record role and join code before the transport starts; the
	// peer-connected callback can fire inside StartClient and must observe
	// them
	b.mu.Lock()
	b.state.Role = model.RoleClient
	b.state.JoinCode = code
	b.mu.Unlock()

	if err := b.transport.StartClient(ctx); err != nil {
		b.mu.Lock()
		b.state = model.DefaultSessionState()
		b.mu.Unlock()
		return b.failConnection(fmt.Errorf("start client: %w", err))
	}

	b.logger.Info("client started", slog.String("join_code", string(code)))
	return nil
}

// Shutdown tears down the transport and resets the session state to its
// defaults. Not being in a session is a warned no-op.
func (b *Broker) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	if b.state.Role == model.RoleNone {
		b.mu.Unlock()
		b.logger.Warn("shutdown requested with no active session")
		return model.ErrNotConnected
	}
	code := b.state.JoinCode
	b.mu.Unlock()

	if err := b.transport.Stop(ctx); err != nil {
		return fmt.Errorf("stop transport: %w", err)
	}

	b.mu.Lock()
	b.state = model.DefaultSessionState()
	b.mu.Unlock()

	b.logger.Info("session shut down", slog.String("join_code", string(code)))
	b.publish(model.Event{
		Type:     model.EventSessionShutdown,
		JoinCode: code,
	})
	return nil
}

// handlePeerConnected is invoked by the transport when a peer attaches
func (b *Broker) handlePeerConnected(id model.ConnectionID) {
	b.mu.Lock()
	b.state.ConnectedPeers++
	b.state.Connected = true
	count := b.state.ConnectedPeers
	code := b.state.JoinCode
	b.mu.Unlock()

	b.logger.Info("peer connected",
		slog.String("connection_id", string(id)),
		slog.Int("peers", count))
	b.publish(model.Event{
		Type:     model.EventClientConnected,
		JoinCode: code,
		Payload:  model.PeerPayload{ConnectionID: id, PeerCount: count},
	})
}

// handlePeerDisconnected is invoked by the transport when a peer detaches.
// A disconnect with no matching connect is an anomaly: logged, no state
// change, no event.
func (b *Broker) handlePeerDisconnected(id model.ConnectionID) {
	b.mu.Lock()
	if b.state.ConnectedPeers == 0 {
		b.mu.Unlock()
		b.logger.Warn("peer disconnect without matching connect",
			slog.String("connection_id", string(id)))
		return
	}
	b.state.ConnectedPeers--
	count := b.state.ConnectedPeers
	code := b.state.JoinCode
	b.mu.Unlock()

	b.logger.Info("peer disconnected",
		slog.String("connection_id", string(id)),
		slog.Int("peers", count))
	b.publish(model.Event{
		Type:     model.EventClientDisconnected,
		JoinCode: code,
		Payload:  model.PeerPayload{ConnectionID: id, PeerCount: count},
	})
}

// beginStart gates host/client starts: one at a time, none while connected
func (b *Broker) beginStart() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.starting {
		return model.ErrStartInProgress
	}
	if b.state.Role != model.RoleNone {
		return model.ErrAlreadyConnected
	}
	b.starting = true
	return nil
}

// endStart releases the single-flight start gate
func (b *Broker) endStart() {
	b.mu.Lock()
	b.starting = false
	b.mu.Unlock()
}

// failConnection reports a failed start without touching session state
func (b *Broker) failConnection(err error) error {
	b.logger.Error("connection failed", slog.Any("error", err))
	b.publish(model.Event{
		Type:    model.EventConnectionFailed,
		Payload: model.ConnectionFailedPayload{Reason: err.Error()},
	})
	return err
}

// publish stamps and emits an event
func (b *Broker) publish(evt model.Event) {
	evt.Timestamp = b.clock.Now()
	b.bus.Publish(evt)
}

// BrokerInterface is the broker contract for dependency injection
type BrokerInterface interface {
	State() model.SessionState
	StartHost(ctx context.Context, meta model.RoomMetadata) (model.JoinCode, error)
	StartClient(ctx context.Context, code model.JoinCode) error
	Shutdown(ctx context.Context) error
}

var _ BrokerInterface = (*Broker)(nil)
