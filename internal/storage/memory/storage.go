package memory

import (
	"context"
	"sync"

	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players     map[model.PlayerID]*model.PlayerIdentity
	allocations map[model.JoinCode]*model.Allocation
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:     make(map[model.PlayerID]*model.PlayerIdentity),
		allocations: make(map[model.JoinCode]*model.Allocation),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player identity operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.PlayerIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Relay allocation operations

func (s *Storage) SaveAllocation(ctx context.Context, alloc *model.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocations[alloc.JoinCode] = alloc
	return nil
}

func (s *Storage) GetAllocationByCode(ctx context.Context, code model.JoinCode) (*model.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alloc, ok := s.allocations[code]
	if !ok {
		return nil, model.ErrAllocationNotFound
	}
	return alloc, nil
}

func (s *Storage) DeleteAllocation(ctx context.Context, code model.JoinCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.allocations, code)
	return nil
}

func (s *Storage) AllocationExists(ctx context.Context, code model.JoinCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.allocations[code]
	return ok, nil
}
