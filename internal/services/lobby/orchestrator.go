package lobby

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jwpark-dev/cardtable/internal/dependencies/clock"
	"github.com/jwpark-dev/cardtable/internal/events"
	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/platform/identity"
	"github.com/jwpark-dev/cardtable/internal/platform/scene"
	"github.com/jwpark-dev/cardtable/internal/services/session"
)

// User-facing failure messages carried on lobby-error events
const (
	msgNotReady     = "lobby is not ready yet"
	msgEmptyCode    = "enter a join code"
	msgEmptyName    = "enter a player name"
	msgCreateFailed = "failed to create the room"
	msgJoinFailed   = "failed to join the room"
	msgMatchFailed  = "failed to start quick match"
	msgLeaveFailed  = "failed to leave the session"
	msgAuthFailed   = "sign-in did not complete"
)

// Orchestrator is the lobby state machine. Commands validate against the
// current phase, then hand network work to the session broker on a separate
// goroutine; outcomes always arrive as events, so callers never block on
// network calls.
type Orchestrator struct {
	broker   session.BrokerInterface
	identity identity.Provider
	scenes   *scene.Director
	bus      *events.Bus
	clock    clock.Clock
	logger   *slog.Logger

	sub *events.Subscriber

	mu    sync.Mutex
	state model.LobbyState
}

// New creates a new lobby Orchestrator in the Uninitialized phase. The bus
// subscription is opened here, not in Run, so events published between
// construction and the run loop starting are buffered rather than lost.
func New(
	broker session.BrokerInterface,
	provider identity.Provider,
	scenes *scene.Director,
	bus *events.Bus,
	clk clock.Clock,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		broker:   broker,
		identity: provider,
		scenes:   scenes,
		bus:      bus,
		clock:    clk,
		logger:   logger.With(slog.String("component", "lobby")),
		sub:      bus.Subscribe(),
		state:    model.DefaultLobbyState(),
	}
}

// State returns a snapshot of the current lobby state
func (o *Orchestrator) State() model.LobbyState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SessionState returns a snapshot of the broker's session state
func (o *Orchestrator) SessionState() model.SessionState {
	return o.broker.State()
}

// Run consumes bootstrap and session events from the bus until the context
// is cancelled. It drives the Uninitialized → Ready transition and returns
// the lobby to Ready after a session shutdown.
func (o *Orchestrator) Run(ctx context.Context) {
	defer o.bus.Unsubscribe(o.sub)

	for {
		select {
		case evt, ok := <-o.sub.C:
			if !ok {
				return
			}
			o.handleEvent(evt)
		case <-ctx.Done():
			return
		}
	}
}

// handleEvent reacts to events from the bootstrapper and session broker
func (o *Orchestrator) handleEvent(evt model.Event) {
	switch evt.Type {
	case model.EventInitComplete:
		if !o.identity.IsSignedIn() {
			o.logger.Error("initialization completed without a signed-in player")
			o.publishError(msgAuthFailed)
			return
		}
		o.mu.Lock()
		if o.state.Phase == model.PhaseUninitialized {
			o.state.Phase = model.PhaseReady
			o.state.Ready = true
		}
		o.mu.Unlock()
		o.logger.Info("lobby ready")

	case model.EventSessionShutdown:
		o.mu.Lock()
		if o.state.Phase == model.PhaseInSession {
			o.state.Phase = model.PhaseReady
			o.state.CurrentJoinCode = ""
		}
		o.mu.Unlock()
	}
}

// CreateRoom hosts a new room. The metadata is accepted here and carried
// to the broker opaquely; the session layer does not consume it yet.
func (o *Orchestrator) CreateRoom(ctx context.Context, meta model.RoomMetadata) error {
	if err := o.beginStart(model.PhaseHosting); err != nil {
		o.publishError(msgNotReady)
		return err
	}

	go func(ctx context.Context) {
		code, err := o.broker.StartHost(ctx, meta)
		if err != nil {
			o.abortStart()
			o.publishError(msgCreateFailed)
			return
		}
		o.completeStart(code)
		o.publish(model.Event{
			Type:     model.EventRoomCreated,
			JoinCode: code,
			Payload:  model.RoomCreatedPayload{JoinCode: code, Metadata: meta},
		})
		// Only the host performs the transition; clients follow the
		// host's scene synchronization
		o.scenes.RequestSceneLoad(model.RoleHost, scene.GameScene)
	}(context.WithoutCancel(ctx))

	return nil
}

// JoinRoom connects to an existing room by join code
func (o *Orchestrator) JoinRoom(ctx context.Context, code model.JoinCode) error {
	if code == "" {
		o.publishError(msgEmptyCode)
		return model.ErrEmptyJoinCode
	}
	if err := o.beginStart(model.PhaseJoining); err != nil {
		o.publishError(msgNotReady)
		return err
	}

	go func(ctx context.Context) {
		if err := o.broker.StartClient(ctx, code); err != nil {
			o.abortStart()
			o.publishError(msgJoinFailed)
			return
		}
		o.completeStart(code)
		o.publish(model.Event{
			Type:     model.EventRoomJoined,
			JoinCode: code,
			Payload:  model.RoomJoinedPayload{JoinCode: code},
		})
		// No scene request here: the joining peer waits for the
		// host-driven scene synchronization
	}(context.WithoutCancel(ctx))

	return nil
}

// StartQuickMatch hosts a session without room configuration. Quick match
// always assumes the host role.
func (o *Orchestrator) StartQuickMatch(ctx context.Context) error {
	if err := o.beginStart(model.PhaseHosting); err != nil {
		o.publishError(msgNotReady)
		return err
	}

	go func(ctx context.Context) {
		code, err := o.broker.StartHost(ctx, model.RoomMetadata{})
		if err != nil {
			o.abortStart()
			o.publishError(msgMatchFailed)
			return
		}
		o.completeStart(code)
		o.publish(model.Event{
			Type:     model.EventQuickMatchStarted,
			JoinCode: code,
			Payload:  model.HostStartedPayload{JoinCode: code},
		})
		o.scenes.RequestSceneLoad(model.RoleHost, scene.GameScene)
	}(context.WithoutCancel(ctx))

	return nil
}

// ShutdownSession leaves the current session. The phase change back to
// Ready arrives via the broker's shutdown event.
func (o *Orchestrator) ShutdownSession(ctx context.Context) error {
	o.mu.Lock()
	if o.state.Phase != model.PhaseInSession {
		o.mu.Unlock()
		o.publishError(msgNotReady)
		return model.ErrLobbyNotReady
	}
	o.mu.Unlock()

	go func(ctx context.Context) {
		if err := o.broker.Shutdown(ctx); err != nil {
			o.logger.Error("session shutdown failed", slog.Any("error", err))
			o.publishError(msgLeaveFailed)
		}
	}(context.WithoutCancel(ctx))

	return nil
}

// SetPlayerName updates the signed-in player's display name
func (o *Orchestrator) SetPlayerName(ctx context.Context, name string) error {
	if name == "" {
		o.publishError(msgEmptyName)
		return model.ErrEmptyPlayerName
	}

	o.mu.Lock()
	ready := o.state.Ready
	o.mu.Unlock()
	if !ready {
		o.publishError(msgNotReady)
		return model.ErrLobbyNotReady
	}

	if err := o.identity.UpdatePlayerName(ctx, name); err != nil {
		o.publishError(msgAuthFailed)
		return err
	}

	o.publish(model.Event{
		Type:    model.EventPlayerNameChanged,
		Payload: model.PlayerNameChangedPayload{Name: name},
	})
	return nil
}

// beginStart transitions Ready → Hosting|Joining under the phase gate
func (o *Orchestrator) beginStart(target model.LobbyPhase) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Phase != model.PhaseReady {
		return model.ErrLobbyNotReady
	}
	o.state.Phase = target
	return nil
}

// abortStart returns a failed Hosting|Joining transition to Ready
func (o *Orchestrator) abortStart() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Phase == model.PhaseHosting || o.state.Phase == model.PhaseJoining {
		o.state.Phase = model.PhaseReady
	}
}

// completeStart transitions Hosting|Joining → InSession
func (o *Orchestrator) completeStart(code model.JoinCode) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Phase = model.PhaseInSession
	o.state.CurrentJoinCode = code
}

// publishError emits a lobby-error event
func (o *Orchestrator) publishError(reason string) {
	o.publish(model.Event{
		Type:    model.EventLobbyError,
		Payload: model.LobbyErrorPayload{Reason: reason},
	})
}

// publish stamps and emits an event
func (o *Orchestrator) publish(evt model.Event) {
	evt.Timestamp = o.clock.Now()
	o.bus.Publish(evt)
}

// OrchestratorInterface is the orchestrator contract for dependency
// injection
type OrchestratorInterface interface {
	State() model.LobbyState
	SessionState() model.SessionState
	CreateRoom(ctx context.Context, meta model.RoomMetadata) error
	JoinRoom(ctx context.Context, code model.JoinCode) error
	StartQuickMatch(ctx context.Context) error
	ShutdownSession(ctx context.Context) error
	SetPlayerName(ctx context.Context, name string) error
}

var _ OrchestratorInterface = (*Orchestrator)(nil)
