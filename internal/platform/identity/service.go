package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jwpark-dev/cardtable/internal/dependencies/clock"
	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/storage"
)

// Service is a storage-backed identity provider for anonymous players
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu      sync.RWMutex
	current *model.PlayerIdentity
}

// New creates a new identity Service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "identity")),
	}
}

// Ensure Service implements the provider contract
var _ Provider = (*Service)(nil)

// SignInAnonymously creates a fresh anonymous identity and persists it.
// Signing in while already signed in returns the existing identity; the
// player ID is stable for the life of the sign-in.
func (s *Service) SignInAnonymously(ctx context.Context) (*model.PlayerIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		identity := *s.current
		return &identity, nil
	}

	player := &model.PlayerIdentity{
		ID:            model.PlayerID("p_" + uuid.NewString()),
		DisplayName:   "",
		Authenticated: true,
		SignedInAt:    s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.current = player
	s.logger.Info("signed in anonymously", slog.String("player_id", string(player.ID)))

	identity := *player
	return &identity, nil
}

// UpdatePlayerName changes the display name of the signed-in player
func (s *Service) UpdatePlayerName(ctx context.Context, name string) error {
	if name == "" {
		return model.ErrEmptyPlayerName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.ErrNotSignedIn
	}

	s.current.DisplayName = name
	if err := s.storage.SavePlayer(ctx, s.current); err != nil {
		return err
	}

	s.logger.Info("player name updated",
		slog.String("player_id", string(s.current.ID)),
		slog.String("name", name))
	return nil
}

// IsSignedIn reports whether a player is currently signed in
func (s *Service) IsSignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Current returns a copy of the signed-in player identity
func (s *Service) Current() (*model.PlayerIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, model.ErrNotSignedIn
	}
	identity := *s.current
	return &identity, nil
}

// SignOut clears the current identity
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.ErrNotSignedIn
	}

	if err := s.storage.DeletePlayer(ctx, s.current.ID); err != nil {
		return err
	}

	s.logger.Info("signed out", slog.String("player_id", string(s.current.ID)))
	s.current = nil
	return nil
}
