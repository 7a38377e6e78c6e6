package factory

import (
	"time"

	"github.com/jwpark-dev/cardtable/internal/dependencies/mocks"
	"github.com/jwpark-dev/cardtable/internal/platform/transport/loopback"
	"github.com/jwpark-dev/cardtable/internal/services/session"
	"github.com/jwpark-dev/cardtable/internal/storage/memory"
	"github.com/jwpark-dev/cardtable/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// Network is the loopback switchboard; additional test peers can
	// attach transports through it
	Network *loopback.Network
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	network := loopback.NewNetwork()

	app := newWithDependencies(
		store,
		network.NewTransport(),
		mockClock,
		mockRandom,
		"127.0.0.1:0",
		session.DefaultConfig(),
		testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Network:    network,
	}
}

// NewPeer creates a second TestApp sharing this app's storage and loopback
// network, modeling another process reaching the same relay
func (a *TestApp) NewPeer() *TestApp {
	mockClock := mocks.NewMockClock(a.MockClock.Now())
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(
		a.Storage,
		a.Network.NewTransport(),
		mockClock,
		mockRandom,
		"127.0.0.1:0",
		session.DefaultConfig(),
		testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Network:    a.Network,
	}
}
