package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jwpark-dev/cardtable/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	host   *TestApp
	ctx    context.Context
	cancel context.CancelFunc
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.host = NewTestApp()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	go s.host.Orchestrator.Run(s.ctx)
}

func (s *IntegrationSuite) TearDownTest() {
	s.cancel()
}

// startPeer attaches a second app to the same network and runs its
// orchestrator
func (s *IntegrationSuite) startPeer() *TestApp {
	peer := s.host.NewPeer()
	go peer.Orchestrator.Run(s.ctx)
	return peer
}

// bootstrap initializes an app and waits for its lobby to become ready
func (s *IntegrationSuite) bootstrap(app *TestApp, nameDigits string) {
	app.MockRandom.QueueString(nameDigits)
	s.Require().NoError(app.Bootstrapper.Initialize(s.ctx))
	s.waitPhase(app, model.PhaseReady)
}

// waitPhase polls until the app's lobby reaches the given phase
func (s *IntegrationSuite) waitPhase(app *TestApp, phase model.LobbyPhase) {
	s.Require().Eventually(func() bool {
		return app.Orchestrator.State().Phase == phase
	}, 2*time.Second, 5*time.Millisecond, "lobby never reached phase %s", phase)
}

// Test: a full startup sequence leaves the lobby ready with a named player
func (s *IntegrationSuite) TestBootstrapToReady() {
	s.bootstrap(s.host, "1234")

	state := s.host.Orchestrator.State()
	s.True(state.Ready)
	s.Equal(model.PhaseReady, state.Phase)

	player, err := s.host.Identity.Current()
	s.Require().NoError(err)
	s.Equal("Player_1234", player.DisplayName)
}

// Test: initialization finishing before the run loop starts still readies
// the lobby
func (s *IntegrationSuite) TestBootstrapBeforeRunLoop() {
	app := NewTestApp()
	app.MockRandom.QueueString("1234")
	s.Require().NoError(app.Bootstrapper.Initialize(s.ctx))

	go app.Orchestrator.Run(s.ctx)
	s.waitPhase(app, model.PhaseReady)
}

// Test: full flow from room creation to a second process joining and both
// sides shutting down
func (s *IntegrationSuite) TestHostAndJoinFlow() {
	peer := s.startPeer()

	s.bootstrap(s.host, "1234")
	s.bootstrap(peer, "5678")

	// Step 1: Host creates a room
	s.host.MockRandom.QueueString("ABC234")
	s.Require().NoError(s.host.Orchestrator.CreateRoom(s.ctx, model.RoomMetadata{Name: "Table"}))
	s.waitPhase(s.host, model.PhaseInSession)

	hostState := s.host.Broker.State()
	s.Equal(model.RoleHost, hostState.Role)
	s.True(hostState.Connected)
	code := hostState.JoinCode
	s.Require().NotEmpty(code)

	// Step 2: The peer joins by code
	s.Require().NoError(peer.Orchestrator.JoinRoom(s.ctx, code))
	s.waitPhase(peer, model.PhaseInSession)

	peerState := peer.Broker.State()
	s.Equal(model.RoleClient, peerState.Role)
	s.Equal(code, peerState.JoinCode)
	s.True(peerState.Connected)

	// Host sees itself plus the joined peer
	s.Require().Eventually(func() bool {
		return s.host.Broker.State().ConnectedPeers == 2
	}, 2*time.Second, 5*time.Millisecond)

	// Step 3: Peer leaves; the host drops back to one peer
	s.Require().NoError(peer.Orchestrator.ShutdownSession(s.ctx))
	s.waitPhase(peer, model.PhaseReady)
	s.Require().Eventually(func() bool {
		return s.host.Broker.State().ConnectedPeers == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Step 4: Host shuts the session down
	s.Require().NoError(s.host.Orchestrator.ShutdownSession(s.ctx))
	s.waitPhase(s.host, model.PhaseReady)
	s.Equal(model.DefaultSessionState(), s.host.Broker.State())
}

// Test: quick match hosts a session immediately
func (s *IntegrationSuite) TestQuickMatchFlow() {
	s.bootstrap(s.host, "1234")

	s.host.MockRandom.QueueString("QMX234")
	s.Require().NoError(s.host.Orchestrator.StartQuickMatch(s.ctx))
	s.waitPhase(s.host, model.PhaseInSession)

	state := s.host.Broker.State()
	s.Equal(model.RoleHost, state.Role)
	s.Equal(model.JoinCode("QMX234"), state.JoinCode)
}

// Test: joining an unknown code surfaces an error and leaves the lobby
// usable
func (s *IntegrationSuite) TestJoinUnknownCodeRecovers() {
	s.bootstrap(s.host, "1234")

	sub := s.host.Bus.Subscribe()
	defer s.host.Bus.Unsubscribe(sub)

	s.Require().NoError(s.host.Orchestrator.JoinRoom(s.ctx, "NOPE99"))

	// The failure surfaces as a lobby error; by then the phase is Ready
	s.Require().Eventually(func() bool {
		select {
		case evt := <-sub.C:
			return evt.Type == model.EventLobbyError
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)

	s.Equal(model.PhaseReady, s.host.Orchestrator.State().Phase)
	s.Equal(model.DefaultSessionState(), s.host.Broker.State())

	// The lobby recovered; hosting still works
	s.host.MockRandom.QueueString("ABC234")
	s.Require().NoError(s.host.Orchestrator.StartQuickMatch(s.ctx))
	s.waitPhase(s.host, model.PhaseInSession)
}

// Test: a second initialization attempt fails fast
func (s *IntegrationSuite) TestDoubleBootstrapRejected() {
	s.bootstrap(s.host, "1234")

	err := s.host.Bootstrapper.Initialize(s.ctx)
	s.ErrorIs(err, model.ErrAlreadyInitialized)
}
