package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jwpark-dev/cardtable/internal/dependencies/mocks"
	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/storage/memory"
	"github.com/jwpark-dev/cardtable/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, "127.0.0.1:9400", testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateAllocation() {
	s.random.QueueString("ABC234")

	id, info, err := s.service.CreateAllocation(s.ctx, 1, "auto")
	s.Require().NoError(err)

	s.NotEmpty(id)
	s.Equal(id, info.AllocationID)
	s.Equal("127.0.0.1:9400", info.Endpoint)
	s.Equal("auto", info.Region)
}

func (s *ServiceSuite) TestCreateAllocationPersistsUnderJoinCode() {
	s.random.QueueString("ABC234")

	id, _, err := s.service.CreateAllocation(s.ctx, 1, "auto")
	s.Require().NoError(err)

	alloc, err := s.storage.GetAllocationByCode(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(id, alloc.ID)
	s.Equal(1, alloc.Slots)
	s.Equal(s.clock.Now(), alloc.CreatedAt)
}

func (s *ServiceSuite) TestCreateAllocationRetriesOnCodeCollision() {
	s.random.QueueString("ABC234", "ABC234", "XYZ789")

	_, _, err := s.service.CreateAllocation(s.ctx, 1, "auto")
	s.Require().NoError(err)

	_, _, err = s.service.CreateAllocation(s.ctx, 1, "auto")
	s.Require().NoError(err)

	_, err = s.storage.GetAllocationByCode(s.ctx, "XYZ789")
	s.NoError(err)
}

func (s *ServiceSuite) TestGetJoinCode() {
	s.random.QueueString("ABC234")

	id, _, err := s.service.CreateAllocation(s.ctx, 1, "auto")
	s.Require().NoError(err)

	code, err := s.service.GetJoinCode(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.JoinCode("ABC234"), code)
}

func (s *ServiceSuite) TestGetJoinCodeUnknownAllocation() {
	_, err := s.service.GetJoinCode(s.ctx, "unknown")
	s.ErrorIs(err, model.ErrAllocationNotFound)
}

func (s *ServiceSuite) TestJoinAllocation() {
	s.random.QueueString("ABC234")

	id, _, err := s.service.CreateAllocation(s.ctx, 1, "auto")
	s.Require().NoError(err)

	info, err := s.service.JoinAllocation(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(id, info.AllocationID)
	s.Equal("127.0.0.1:9400", info.Endpoint)
}

func (s *ServiceSuite) TestJoinAllocationEmptyCode() {
	_, err := s.service.JoinAllocation(s.ctx, "")
	s.ErrorIs(err, model.ErrEmptyJoinCode)
}

func (s *ServiceSuite) TestJoinAllocationClaimsSlot() {
	s.random.QueueString("ABC234")

	_, _, err := s.service.CreateAllocation(s.ctx, 1, "auto")
	s.Require().NoError(err)

	_, err = s.service.JoinAllocation(s.ctx, "ABC234")
	s.Require().NoError(err)

	_, err = s.service.JoinAllocation(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrAllocationFull)
}

func (s *ServiceSuite) TestJoinAllocationUnknownCode() {
	_, err := s.service.JoinAllocation(s.ctx, "NOPE99")
	s.ErrorIs(err, model.ErrAllocationNotFound)
}
