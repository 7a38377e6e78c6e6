package identity

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
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestSignInAnonymouslyCreatesIdentity() {
	identity, err := s.service.SignInAnonymously(s.ctx)
	s.Require().NoError(err)

	s.NotEmpty(identity.ID)
	s.Empty(identity.DisplayName)
	s.True(identity.Authenticated)
	s.Equal(s.clock.Now(), identity.SignedInAt)
}

func (s *ServiceSuite) TestSignInPersistsIdentity() {
	identity, err := s.service.SignInAnonymously(s.ctx)
	s.Require().NoError(err)

	stored, err := s.storage.GetPlayer(s.ctx, identity.ID)
	s.Require().NoError(err)
	s.Equal(identity.ID, stored.ID)
}

func (s *ServiceSuite) TestSignInTwiceKeepsSameID() {
	first, err := s.service.SignInAnonymously(s.ctx)
	s.Require().NoError(err)

	second, err := s.service.SignInAnonymously(s.ctx)
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
}

func (s *ServiceSuite) TestIsSignedIn() {
	s.False(s.service.IsSignedIn())

	_, err := s.service.SignInAnonymously(s.ctx)
	s.Require().NoError(err)

	s.True(s.service.IsSignedIn())
}

func (s *ServiceSuite) TestCurrentBeforeSignIn() {
	_, err := s.service.Current()
	s.ErrorIs(err, model.ErrNotSignedIn)
}

func (s *ServiceSuite) TestUpdatePlayerName() {
	identity, _ := s.service.SignInAnonymously(s.ctx)

	err := s.service.UpdatePlayerName(s.ctx, "Alice")
	s.Require().NoError(err)

	current, err := s.service.Current()
	s.Require().NoError(err)
	s.Equal("Alice", current.DisplayName)
	s.Equal(identity.ID, current.ID)

	stored, err := s.storage.GetPlayer(s.ctx, identity.ID)
	s.Require().NoError(err)
	s.Equal("Alice", stored.DisplayName)
}

func (s *ServiceSuite) TestUpdatePlayerNameEmpty() {
	_, _ = s.service.SignInAnonymously(s.ctx)

	err := s.service.UpdatePlayerName(s.ctx, "")
	s.ErrorIs(err, model.ErrEmptyPlayerName)
}

func (s *ServiceSuite) TestUpdatePlayerNameNotSignedIn() {
	err := s.service.UpdatePlayerName(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrNotSignedIn)
}

func (s *ServiceSuite) TestCurrentReturnsCopy() {
	_, _ = s.service.SignInAnonymously(s.ctx)

	first, _ := s.service.Current()
	first.DisplayName = "mutated"

	second, _ := s.service.Current()
	s.NotEqual("mutated", second.DisplayName)
}

func (s *ServiceSuite) TestSignOut() {
	identity, _ := s.service.SignInAnonymously(s.ctx)

	err := s.service.SignOut(s.ctx)
	s.Require().NoError(err)

	s.False(s.service.IsSignedIn())

	_, err = s.storage.GetPlayer(s.ctx, identity.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestSignOutNotSignedIn() {
	err := s.service.SignOut(s.ctx)
	s.ErrorIs(err, model.ErrNotSignedIn)
}

func (s *ServiceSuite) TestSignInAfterSignOutIssuesNewID() {
	first, _ := s.service.SignInAnonymously(s.ctx)
	_ = s.service.SignOut(s.ctx)

	second, err := s.service.SignInAnonymously(s.ctx)
	s.Require().NoError(err)
	s.NotEqual(first.ID, second.ID)
}
