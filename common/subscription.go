package common

import (
	"sync"

	"github.com/google/uuid"
)

const subscriptionChanSize = 16

// SubscriptionTarget defines the interface between a subscription and its
// target object
type SubscriptionTarget interface {
	NewSubscription() (*Subscription, error)
	CloseSubscription(*Subscription) error
}

// Subscription exposes an event channel for consumers, and attaches to a
// SubscriptionTarget, that will feed it with events
type Subscription struct {
	events   chan interface{}
	quitChan chan struct{}
	id       uuid.UUID
	target   SubscriptionTarget
	mu       sync.Mutex
	closed   bool
}

// ID returns the unique ID for this subscription
func (s *Subscription) ID() string {
	return s.id.String()
}

// Events returns a chan reader for reading events published to this
// subscription.  The channel is closed when the subscription is closed or
// the underlying connection dies.
func (s *Subscription) Events() <-chan interface{} {
	return s.events
}

// Write pushes an event onto the events channel.  The buffer is bounded;
// when a consumer falls behind the oldest buffered event is dropped so a
// slow subscriber can never stall the publisher.
func (s *Subscription) Write(event interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for {
		select {
		case s.events <- event:
			return nil
		default:
		}
		select {
		case dropped := <-s.events:
			Log.Warnf(`subscription %s full, dropping oldest event: %+v`, s.ID(), dropped)
		default:
		}
	}
}

// Close cleans up resources and notifies the target that the subscription
// should no longer be used.  It is important to close subscriptions when you
// are done with them to avoid unnecessary event fan-out.
func (s *Subscription) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		Log.Warnf(`subscription already closed`)
		return ErrClosed
	}
	s.closed = true
	close(s.quitChan)
	close(s.events)
	s.mu.Unlock()
	return s.target.CloseSubscription(s)
}

// NewSubscription returns a *Subscription attached to the specified target
func NewSubscription(target SubscriptionTarget) *Subscription {
	return &Subscription{
		events:   make(chan interface{}, subscriptionChanSize),
		quitChan: make(chan struct{}),
		id:       uuid.New(),
		target:   target,
	}
}
