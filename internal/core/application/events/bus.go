// Package events contains the in-process event bus and the idempotent
// consumers that react to dispatched outbox events. Delivery to a consumer is
// at-least-once; each consumer carries its own dedup ledger to make its side
// effect effectively-once.
package events

import (
	"context"
	"errors"
	"sync"

	"fulfillment/internal/core/domain/model/outbox"
)

// Subscriber reacts to one delivered event. Implementations must tolerate
// redelivery of the same event identity.
type Subscriber interface {
	Handle(ctx context.Context, event *outbox.Event) error
}

// Bus fans dispatched outbox events out to in-process subscribers.
// It implements the dispatcher's delivery contract; a delivery only counts as
// successful when every subscriber handled the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a subscriber for all delivered events.
// Subscribers decide per event type whether to react.
func (b *Bus) Subscribe(subscriber Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers = append(b.subscribers, subscriber)
}

// Deliver hands the event to every subscriber and joins their failures.
// A failed subscriber does not stop delivery to the others; any failure makes
// the whole delivery count as failed so the dispatcher schedules a retry.
func (b *Bus) Deliver(ctx context.Context, event *outbox.Event) error {
	b.mu.RLock()
	subscribers := make([]Subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.RUnlock()

	var errsJoined error
	for _, subscriber := range subscribers {
		if err := subscriber.Handle(ctx, event); err != nil {
			errsJoined = errors.Join(errsJoined, err)
		}
	}

	return errsJoined
}
