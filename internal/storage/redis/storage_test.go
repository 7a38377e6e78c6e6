package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/jwpark-dev/cardtable/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.PlayerTTL = time.Hour
	cfg.AllocationTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.PlayerIdentity{
		ID:            "p_1",
		DisplayName:   "Alice",
		Authenticated: true,
		SignedInAt:    time.Now().UTC(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
	s.True(retrieved.Authenticated)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestPlayerExpiresAfterTTL() {
	player := &model.PlayerIdentity{ID: "p_1", DisplayName: "Alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetPlayer(s.ctx, "p_1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.PlayerIdentity{ID: "p_1", DisplayName: "Alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	err := s.storage.DeletePlayer(s.ctx, "p_1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "p_1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Allocation tests

func (s *StorageSuite) TestSaveAndGetAllocation() {
	alloc := &model.Allocation{
		ID:        "alloc-1",
		JoinCode:  "ABC234",
		Endpoint:  "127.0.0.1:9400",
		Region:    "auto",
		Slots:     1,
		CreatedAt: time.Now().UTC(),
	}

	err := s.storage.SaveAllocation(s.ctx, alloc)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAllocationByCode(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(alloc.ID, retrieved.ID)
	s.Equal(alloc.JoinCode, retrieved.JoinCode)
	s.Equal(alloc.Endpoint, retrieved.Endpoint)
}

func (s *StorageSuite) TestGetAllocationNotFound() {
	_, err := s.storage.GetAllocationByCode(s.ctx, "NOPE99")
	s.ErrorIs(err, model.ErrAllocationNotFound)
}

func (s *StorageSuite) TestAllocationExists() {
	exists, err := s.storage.AllocationExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveAllocation(s.ctx, &model.Allocation{ID: "alloc-1", JoinCode: "ABC234"})

	exists, err = s.storage.AllocationExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestAllocationExpiresAfterTTL() {
	_ = s.storage.SaveAllocation(s.ctx, &model.Allocation{ID: "alloc-1", JoinCode: "ABC234"})

	s.mini.FastForward(2 * time.Hour)

	exists, err := s.storage.AllocationExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestDeleteAllocation() {
	_ = s.storage.SaveAllocation(s.ctx, &model.Allocation{ID: "alloc-1", JoinCode: "ABC234"})

	err := s.storage.DeleteAllocation(s.ctx, "ABC234")
	s.Require().NoError(err)

	_, err = s.storage.GetAllocationByCode(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrAllocationNotFound)
}
