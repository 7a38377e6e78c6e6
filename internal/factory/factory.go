package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/jwpark-dev/cardtable/internal/dependencies/clock"
	"github.com/jwpark-dev/cardtable/internal/dependencies/random"
	"github.com/jwpark-dev/cardtable/internal/events"
	"github.com/jwpark-dev/cardtable/internal/platform"
	"github.com/jwpark-dev/cardtable/internal/platform/identity"
	"github.com/jwpark-dev/cardtable/internal/platform/relay"
	"github.com/jwpark-dev/cardtable/internal/platform/scene"
	"github.com/jwpark-dev/cardtable/internal/platform/transport"
	"github.com/jwpark-dev/cardtable/internal/platform/transport/loopback"
	wstransport "github.com/jwpark-dev/cardtable/internal/platform/transport/ws"
	"github.com/jwpark-dev/cardtable/internal/services/bootstrap"
	"github.com/jwpark-dev/cardtable/internal/services/lobby"
	"github.com/jwpark-dev/cardtable/internal/services/session"
	"github.com/jwpark-dev/cardtable/internal/storage"
	"github.com/jwpark-dev/cardtable/internal/storage/memory"
	redisstorage "github.com/jwpark-dev/cardtable/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Transport type constants
const (
	TransportTypeLoopback  = "loopback"
	TransportTypeWebsocket = "websocket"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Platform services
	Identity  *identity.Service
	Relay     *relay.Service
	Transport transport.Transport
	Scenes    *scene.Director

	// Core services
	Bus          *events.Bus
	Bootstrapper *bootstrap.Bootstrapper
	Broker       *session.Broker
	Orchestrator *lobby.Orchestrator
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// TransportType selects the transport ("loopback" or "websocket")
	// If empty, defaults to "loopback"
	TransportType string
	// RelayEndpoint is the address advertised in allocations created here
	RelayEndpoint string
	// SessionConfig holds broker settings (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create transport based on type
	var tr transport.Transport
	transportType := cfg.TransportType
	if transportType == "" {
		transportType = TransportTypeLoopback
	}

	switch transportType {
	case TransportTypeLoopback:
		tr = loopback.NewNetwork().NewTransport()
	case TransportTypeWebsocket:
		tr = wstransport.New(logger)
	default:
		return nil, errors.New("invalid TransportType: must be 'loopback' or 'websocket'")
	}

	endpoint := cfg.RelayEndpoint
	if endpoint == "" {
		endpoint = "127.0.0.1:9400"
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, tr, clk, rnd, endpoint, cfg.SessionConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	tr transport.Transport,
	clk clock.Clock,
	rnd random.Random,
	relayEndpoint string,
	sessionCfg session.Config,
	logger *slog.Logger,
) *App {
	bus := events.NewBus(logger)

	identityService := identity.New(store, clk, logger)
	relayService := relay.New(store, clk, rnd, relayEndpoint, logger)
	scenes := scene.NewDirector(scene.NewLogLoader(logger), logger)
	platformServices := platform.NewLocal(store, logger)

	broker := session.NewBroker(relayService, tr, bus, clk, sessionCfg, logger)
	bootstrapper := bootstrap.New(platformServices, identityService, bus, clk, rnd, logger)
	orchestrator := lobby.New(broker, identityService, scenes, bus, clk, logger)

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		Identity:     identityService,
		Relay:        relayService,
		Transport:    tr,
		Scenes:       scenes,
		Bus:          bus,
		Bootstrapper: bootstrapper,
		Broker:       broker,
		Orchestrator: orchestrator,
	}
}
