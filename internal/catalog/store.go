// Package catalog aggregates a user's raw ticket records into
// transactions, lazily fetches per-transaction ticket detail with
// request deduplication, and annotates each ticket with an
// asynchronous tradability verdict.
package catalog

import (
	"context"
	"sync"

	"github.com/ticketloop/marketplace/internal/client"
	"github.com/ticketloop/marketplace/internal/flight"
)

// Store holds the event-detail cache and the in-flight operation
// registry backing a Catalog. It has an explicit lifecycle: construct
// one per logical user session and Clear it on identity switch so
// cached metadata never leaks across users.
type Store struct {
	mu     sync.Mutex
	events map[string]client.EventDetails
	flight flight.Group
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{events: make(map[string]client.EventDetails)}
}

// Clear wipes the event-detail sub-cache. In-flight operations are not
// interrupted; their results land in the fresh cache.
func (s *Store) Clear() {
	s.mu.Lock()
	s.events = make(map[string]client.EventDetails)
	s.mu.Unlock()
}

// EventDetails returns cached metadata for an event, fetching it at
// most once per miss even under concurrent callers.
func (s *Store) EventDetails(ctx context.Context, eventID string, fetch func(context.Context, string) (client.EventDetails, error)) (client.EventDetails, error) {
	s.mu.Lock()
	if ev, ok := s.events[eventID]; ok {
		s.mu.Unlock()
		return ev, nil
	}
	s.mu.Unlock()

	v, err := s.flight.Do("eventDetails_"+eventID, func() (any, error) {
		ev, err := fetch(ctx, eventID)
		if err != nil {
			return client.EventDetails{}, err
		}
		s.mu.Lock()
		s.events[eventID] = ev
		s.mu.Unlock()
		return ev, nil
	})
	if err != nil {
		return client.EventDetails{}, err
	}
	return v.(client.EventDetails), nil
}

// do exposes the in-flight registry to the owning catalog.
func (s *Store) do(key string, fn func() (any, error)) (any, error) {
	return s.flight.Do(key, fn)
}
