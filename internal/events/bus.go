package events

import (
	"log/slog"
	"sync"

	"github.com/jwpark-dev/cardtable/internal/model"
)

// DefaultBufferSize is the per-subscriber event buffer
const DefaultBufferSize = 64

// Subscriber receives events published on a Bus. Read from C until it is
// closed.
type Subscriber struct {
	C chan model.Event
}

// Bus fans events out to any number of subscribers. Delivery order across
// subscribers is unspecified. Publishing never blocks; events are dropped
// for subscribers whose buffer is full.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]bool
	closed      bool
	logger      *slog.Logger
}

// NewBus creates a new event bus
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[*Subscriber]bool),
		logger:      logger.With(slog.String("component", "events")),
	}
}

// Subscribe registers a new subscriber with the default buffer size
func (b *Bus) Subscribe() *Subscriber {
	return b.SubscribeBuffered(DefaultBufferSize)
}

// SubscribeBuffered registers a new subscriber with the given buffer size
func (b *Bus) SubscribeBuffered(buffer int) *Subscriber {
	sub := &Subscriber{C: make(chan model.Event, buffer)}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.C)
		return sub
	}
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Removing a
// subscriber that was never registered (or already removed) is a no-op.
func (b *Bus) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[sub]; !ok {
		return
	}
	delete(b.subscribers, sub)
	close(sub.C)
}

// Publish delivers an event to all current subscribers without blocking
func (b *Bus) Publish(evt model.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	dropped := 0
	for sub := range b.subscribers {
		select {
		case sub.C <- evt:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		b.logger.Warn("event dropped - subscriber buffer full",
			slog.String("event", string(evt.Type)),
			slog.Int("dropped", dropped))
	}
}

// Close shuts down the bus and closes all subscriber channels
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subscribers {
		close(sub.C)
		delete(b.subscribers, sub)
	}
}

// SubscriberCount returns the number of registered subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
