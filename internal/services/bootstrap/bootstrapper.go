package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jwpark-dev/cardtable/internal/dependencies/clock"
	"github.com/jwpark-dev/cardtable/internal/dependencies/random"
	"github.com/jwpark-dev/cardtable/internal/events"
	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/platform/identity"
)

// defaultNameDigits is the number of digits in generated player names
const defaultNameDigits = 4

// Platform is the backing platform services brought up before sign-in
type Platform interface {
	// InitializeCore brings up the platform core service. Must succeed
	// before sign-in is possible.
	InitializeCore(ctx context.Context) error

	// InitializeMultiplayer brings up the multiplayer-capability service.
	// Requires a signed-in identity.
	InitializeMultiplayer(ctx context.Context) error
}

// Bootstrapper performs the one-time startup sequence required before any
// lobby operation is valid: core init, anonymous sign-in, multiplayer init,
// default player name. Steps run in that order because each depends on the
// previous one.
type Bootstrapper struct {
	platform Platform
	identity identity.Provider
	bus      *events.Bus
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	mu           sync.Mutex
	initialized  bool
	initializing bool
}

// New creates a new Bootstrapper
func New(
	platform Platform,
	provider identity.Provider,
	bus *events.Bus,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Bootstrapper {
	return &Bootstrapper{
		platform: platform,
		identity: provider,
		bus:      bus,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "bootstrap")),
	}
}

// Initialize runs the startup sequence. On success it emits an
// initialization-complete event exactly once. A failure at any step aborts
// the remaining steps and emits initialization-failed; retrying is the
// caller's decision. A second call after success fails fast with
// ErrAlreadyInitialized, and a call while the sequence is still running
// fails fast with ErrInitInProgress; neither emits anything.
func (b *Bootstrapper) Initialize(ctx context.Context) error {
	b.mu.Lock()
	if b.initialized {
		b.mu.Unlock()
		return model.ErrAlreadyInitialized
	}
	if b.initializing {
		b.mu.Unlock()
		return model.ErrInitInProgress
	}
	b.initializing = true
	b.mu.Unlock()

	if err := b.platform.InitializeCore(ctx); err != nil {
		return b.fail(fmt.Errorf("initialize core service: %w", err))
	}

	player, err := b.identity.SignInAnonymously(ctx)
	if err != nil {
		return b.fail(fmt.Errorf("anonymous sign-in: %w", err))
	}

	if err := b.platform.InitializeMultiplayer(ctx); err != nil {
		return b.fail(fmt.Errorf("initialize multiplayer service: %w", err))
	}

	// The anonymous provider issues no display name; generate one
	if player.DisplayName == "" {
		name := "Player_" + b.random.String(defaultNameDigits, "0123456789")
		if err := b.identity.UpdatePlayerName(ctx, name); err != nil {
			return b.fail(fmt.Errorf("assign default player name: %w", err))
		}
	}

	b.mu.Lock()
	b.initialized = true
	b.initializing = false
	b.mu.Unlock()

	b.logger.Info("services initialized", slog.String("player_id", string(player.ID)))
	b.bus.Publish(model.Event{
		Type:      model.EventInitComplete,
		Timestamp: b.clock.Now(),
		PlayerID:  player.ID,
	})
	return nil
}

// IsInitialized reports whether the startup sequence has completed
func (b *Bootstrapper) IsInitialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

// fail reports an aborted startup sequence and releases the in-flight guard
// so the caller can retry
func (b *Bootstrapper) fail(err error) error {
	b.mu.Lock()
	b.initializing = false
	b.mu.Unlock()

	b.logger.Error("initialization failed", slog.Any("error", err))
	b.bus.Publish(model.Event{
		Type:      model.EventInitFailed,
		Timestamp: b.clock.Now(),
		Payload:   model.InitFailedPayload{Reason: err.Error()},
	})
	return err
}
