package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player identity operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.PlayerIdentity) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.ID), data, s.cfg.PlayerTTL).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerIdentity, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.PlayerIdentity
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Relay allocation operations

func (s *Storage) SaveAllocation(ctx context.Context, alloc *model.Allocation) error {
	data, err := json.Marshal(alloc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, allocationKey(alloc.JoinCode), data, s.cfg.AllocationTTL).Err()
}

func (s *Storage) GetAllocationByCode(ctx context.Context, code model.JoinCode) (*model.Allocation, error) {
	data, err := s.client.Get(ctx, allocationKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAllocationNotFound
		}
		return nil, err
	}

	var alloc model.Allocation
	if err := json.Unmarshal(data, &alloc); err != nil {
		return nil, err
	}
	return &alloc, nil
}

func (s *Storage) DeleteAllocation(ctx context.Context, code model.JoinCode) error {
	return s.client.Del(ctx, allocationKey(code)).Err()
}

func (s *Storage) AllocationExists(ctx context.Context, code model.JoinCode) (bool, error) {
	n, err := s.client.Exists(ctx, allocationKey(code)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
