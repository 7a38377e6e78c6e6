package loopback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/platform/transport"
)

type TransportSuite struct {
	suite.Suite
	network *Network
	ctx     context.Context
}

func TestTransportSuite(t *testing.T) {
	suite.Run(t, new(TransportSuite))
}

func (s *TransportSuite) SetupTest() {
	s.network = NewNetwork()
	s.ctx = context.Background()
}

func (s *TransportSuite) info(alloc string) model.ConnectionInfo {
	return model.ConnectionInfo{
		AllocationID: model.AllocationID(alloc),
		Endpoint:     "loopback",
		Region:       "auto",
	}
}

func (s *TransportSuite) TestStartHostRequiresConfigure() {
	t := s.network.NewTransport()
	err := t.StartHost(s.ctx)
	s.ErrorIs(err, ErrNotConfigured)
}

func (s *TransportSuite) TestStartClientRequiresConfigure() {
	t := s.network.NewTransport()
	err := t.StartClient(s.ctx)
	s.ErrorIs(err, ErrNotConfigured)
}

func (s *TransportSuite) TestStartClientWithoutHost() {
	t := s.network.NewTransport()
	s.Require().NoError(t.Configure(s.info("alloc-1")))

	err := t.StartClient(s.ctx)
	s.ErrorIs(err, ErrNoHostListening)
}

func (s *TransportSuite) TestClientConnectNotifiesBothSides() {
	host := s.network.NewTransport()
	client := s.network.NewTransport()

	var hostConnected, clientConnected []model.ConnectionID
	host.SetCallbacks(transport.Callbacks{
		OnPeerConnected: func(id model.ConnectionID) {
			hostConnected = append(hostConnected, id)
		},
	})
	client.SetCallbacks(transport.Callbacks{
		OnPeerConnected: func(id model.ConnectionID) {
			clientConnected = append(clientConnected, id)
		},
	})

	s.Require().NoError(host.Configure(s.info("alloc-1")))
	s.Require().NoError(host.StartHost(s.ctx))
	s.Require().NoError(client.Configure(s.info("alloc-1")))
	s.Require().NoError(client.StartClient(s.ctx))

	s.Require().Len(hostConnected, 1)
	s.Require().Len(clientConnected, 1)
	s.Equal(hostConnected[0], clientConnected[0])
}

func (s *TransportSuite) TestConfigureWhileActive() {
	host := s.network.NewTransport()
	s.Require().NoError(host.Configure(s.info("alloc-1")))
	s.Require().NoError(host.StartHost(s.ctx))

	err := host.Configure(s.info("alloc-2"))
	s.ErrorIs(err, ErrRoleActive)
}

func (s *TransportSuite) TestStartHostTwice() {
	host := s.network.NewTransport()
	s.Require().NoError(host.Configure(s.info("alloc-1")))
	s.Require().NoError(host.StartHost(s.ctx))

	err := host.StartHost(s.ctx)
	s.ErrorIs(err, ErrRoleActive)
}

func (s *TransportSuite) TestClientStopNotifiesHost() {
	host := s.network.NewTransport()
	client := s.network.NewTransport()

	var disconnected []model.ConnectionID
	host.SetCallbacks(transport.Callbacks{
		OnPeerDisconnected: func(id model.ConnectionID) {
			disconnected = append(disconnected, id)
		},
	})

	s.Require().NoError(host.Configure(s.info("alloc-1")))
	s.Require().NoError(host.StartHost(s.ctx))
	s.Require().NoError(client.Configure(s.info("alloc-1")))
	s.Require().NoError(client.StartClient(s.ctx))

	s.Require().NoError(client.Stop(s.ctx))
	s.Len(disconnected, 1)
}

func (s *TransportSuite) TestHostStopNotifiesClients() {
	host := s.network.NewTransport()
	client := s.network.NewTransport()

	var disconnected []model.ConnectionID
	client.SetCallbacks(transport.Callbacks{
		OnPeerDisconnected: func(id model.ConnectionID) {
			disconnected = append(disconnected, id)
		},
	})

	s.Require().NoError(host.Configure(s.info("alloc-1")))
	s.Require().NoError(host.StartHost(s.ctx))
	s.Require().NoError(client.Configure(s.info("alloc-1")))
	s.Require().NoError(client.StartClient(s.ctx))

	s.Require().NoError(host.Stop(s.ctx))
	s.Len(disconnected, 1)
}

func (s *TransportSuite) TestHostStopDeregistersAllocation() {
	host := s.network.NewTransport()
	client := s.network.NewTransport()

	s.Require().NoError(host.Configure(s.info("alloc-1")))
	s.Require().NoError(host.StartHost(s.ctx))
	s.Require().NoError(host.Stop(s.ctx))

	s.Require().NoError(client.Configure(s.info("alloc-1")))
	err := client.StartClient(s.ctx)
	s.ErrorIs(err, ErrNoHostListening)
}

func (s *TransportSuite) TestStopAllowsRestart() {
	host := s.network.NewTransport()

	s.Require().NoError(host.Configure(s.info("alloc-1")))
	s.Require().NoError(host.StartHost(s.ctx))
	s.Require().NoError(host.Stop(s.ctx))

	s.Require().NoError(host.Configure(s.info("alloc-2")))
	s.NoError(host.StartHost(s.ctx))
}

func (s *TransportSuite) TestStopWithoutRoleIsNoop() {
	t := s.network.NewTransport()
	s.NoError(t.Stop(s.ctx))
}
