package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/testutil"
)

type BusSuite struct {
	suite.Suite
	bus *Bus
}

func TestBusSuite(t *testing.T) {
	suite.Run(t, new(BusSuite))
}

func (s *BusSuite) SetupTest() {
	s.bus = NewBus(testutil.NopLogger())
}

func (s *BusSuite) TestPublishDeliversToSubscriber() {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)

	evt := model.Event{Type: model.EventHostStarted, JoinCode: "ABC123"}
	s.bus.Publish(evt)

	select {
	case got := <-sub.C:
		s.Equal(model.EventHostStarted, got.Type)
		s.Equal(model.JoinCode("ABC123"), got.JoinCode)
	case <-time.After(time.Second):
		s.Fail("expected event was not delivered")
	}
}

func (s *BusSuite) TestPublishFansOutToAllSubscribers() {
	sub1 := s.bus.Subscribe()
	sub2 := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub1)
	defer s.bus.Unsubscribe(sub2)

	s.bus.Publish(model.Event{Type: model.EventInitComplete})

	for _, sub := range []*Subscriber{sub1, sub2} {
		select {
		case got := <-sub.C:
			s.Equal(model.EventInitComplete, got.Type)
		case <-time.After(time.Second):
			s.Fail("subscriber did not receive event")
		}
	}
}

func (s *BusSuite) TestPublishDoesNotBlockOnFullBuffer() {
	sub := s.bus.SubscribeBuffered(1)
	defer s.bus.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		s.bus.Publish(model.Event{Type: model.EventClientConnected})
		s.bus.Publish(model.Event{Type: model.EventClientConnected})
		s.bus.Publish(model.Event{Type: model.EventClientConnected})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("publish blocked on a full subscriber buffer")
	}

	// Only the buffered event survives
	s.Len(sub.C, 1)
}

func (s *BusSuite) TestUnsubscribeClosesChannel() {
	sub := s.bus.Subscribe()
	s.bus.Unsubscribe(sub)

	_, ok := <-sub.C
	s.False(ok)
	s.Equal(0, s.bus.SubscriberCount())
}

func (s *BusSuite) TestUnsubscribeUnknownSubscriberIsNoop() {
	sub := &Subscriber{C: make(chan model.Event)}
	s.NotPanics(func() {
		s.bus.Unsubscribe(sub)
	})
}

func (s *BusSuite) TestUnsubscribeTwiceIsNoop() {
	sub := s.bus.Subscribe()
	s.bus.Unsubscribe(sub)
	s.NotPanics(func() {
		s.bus.Unsubscribe(sub)
	})
}

func (s *BusSuite) TestCloseClosesAllSubscribers() {
	sub1 := s.bus.Subscribe()
	sub2 := s.bus.Subscribe()

	s.bus.Close()

	_, ok1 := <-sub1.C
	_, ok2 := <-sub2.C
	s.False(ok1)
	s.False(ok2)
	s.Equal(0, s.bus.SubscriberCount())
}

func (s *BusSuite) TestSubscribeAfterCloseReturnsClosedChannel() {
	s.bus.Close()

	sub := s.bus.Subscribe()
	_, ok := <-sub.C
	s.False(ok)
}

func (s *BusSuite) TestPublishAfterCloseIsNoop() {
	s.bus.Close()
	s.NotPanics(func() {
		s.bus.Publish(model.Event{Type: model.EventSessionShutdown})
	})
}
