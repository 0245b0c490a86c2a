package helper

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// PublisherSpy is an outbox.Publisher that records published events for testing.
type PublisherSpy struct {
	mu        sync.Mutex
	published []catalog.DomainEvent
	failAt    int
	failErr   error
	calls     int
}

// NewPublisherSpy creates a PublisherSpy that accepts every event.
func NewPublisherSpy() *PublisherSpy {
	return &PublisherSpy{}
}

// FailOnCall makes the n-th Publish call (1-based) return err.
func (s *PublisherSpy) FailOnCall(n int, err error) *PublisherSpy {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failAt = n
	s.failErr = err

	return s
}

// Publish implements outbox.Publisher.
func (s *PublisherSpy) Publish(_ context.Context, event catalog.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls == s.failAt {
		return s.failErr
	}

	s.published = append(s.published, event)

	return nil
}

// PublishedEvents returns a copy of all accepted events in publish order.
func (s *PublisherSpy) PublishedEvents() []catalog.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]catalog.DomainEvent, len(s.published))
	copy(events, s.published)

	return events
}
