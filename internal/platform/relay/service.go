package relay

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jwpark-dev/cardtable/internal/dependencies/clock"
	"github.com/jwpark-dev/cardtable/internal/dependencies/random"
	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/storage"
)

const (
	// JoinCodeLength is the length of generated join codes
	JoinCodeLength = 6
	// JoinCodeAlphabet is the characters used in join codes (avoid confusing chars)
	JoinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Service is a storage-backed relay. Allocations are registered under their
// join code so a second peer can resolve them, including across processes
// when storage is Redis-backed.
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	endpoint string

	mu        sync.Mutex
	codesByID map[model.AllocationID]model.JoinCode
}

// New creates a new relay Service. The endpoint is the address advertised
// in the connection info of allocations created here.
func New(store storage.Storage, clk clock.Clock, rnd random.Random, endpoint string, logger *slog.Logger) *Service {
	return &Service{
		storage:   store,
		clock:     clk,
		random:    rnd,
		logger:    logger.With(slog.String("component", "relay")),
		endpoint:  endpoint,
		codesByID: make(map[model.AllocationID]model.JoinCode),
	}
}

// Ensure Service implements the relay contract
var _ Relay = (*Service)(nil)

// CreateAllocation reserves a rendezvous slot and registers it under a
// fresh join code
func (s *Service) CreateAllocation(ctx context.Context, slots int, region string) (model.AllocationID, *model.ConnectionInfo, error) {
	// Generate unique join code
	var code model.JoinCode
	for {
		code = model.JoinCode(s.random.String(JoinCodeLength, JoinCodeAlphabet))
		exists, err := s.storage.AllocationExists(ctx, code)
		if err != nil {
			return "", nil, err
		}
		if !exists {
			break
		}
	}

	alloc := &model.Allocation{
		ID:        model.AllocationID(uuid.NewString()),
		JoinCode:  code,
		Endpoint:  s.endpoint,
		Region:    region,
		Slots:     slots,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveAllocation(ctx, alloc); err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	s.codesByID[alloc.ID] = code
	s.mu.Unlock()

	s.logger.Info("allocation created",
		slog.String("allocation_id", string(alloc.ID)),
		slog.String("region", region),
		slog.Int("slots", slots))

	return alloc.ID, &model.ConnectionInfo{
		AllocationID: alloc.ID,
		Endpoint:     alloc.Endpoint,
		Region:       alloc.Region,
	}, nil
}

// GetJoinCode returns the join code for an allocation created by this
// process
func (s *Service) GetJoinCode(ctx context.Context, id model.AllocationID) (model.JoinCode, error) {
	s.mu.Lock()
	code, ok := s.codesByID[id]
	s.mu.Unlock()
	if !ok {
		return "", model.ErrAllocationNotFound
	}
	return code, nil
}

// JoinAllocation resolves a join code to connection parameters and claims
// one of the allocation's peer slots
func (s *Service) JoinAllocation(ctx context.Context, code model.JoinCode) (*model.ConnectionInfo, error) {
	if code == "" {
		return nil, model.ErrEmptyJoinCode
	}

	alloc, err := s.storage.GetAllocationByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if alloc.Slots <= 0 {
		return nil, model.ErrAllocationFull
	}

	alloc.Slots--
	if err := s.storage.SaveAllocation(ctx, alloc); err != nil {
		return nil, err
	}

	s.logger.Info("allocation joined",
		slog.String("allocation_id", string(alloc.ID)),
		slog.Int("slots_left", alloc.Slots))

	return &model.ConnectionInfo{
		AllocationID: alloc.ID,
		Endpoint:     alloc.Endpoint,
		Region:       alloc.Region,
	}, nil
}
