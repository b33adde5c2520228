package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

// DraftStore keeps live drafts in process memory. Drafts hold open resources
// (pending lookups, preview handles) so they are never serialized.
type DraftStore[T any] struct {
	mu      sync.RWMutex
	entries map[string]*ports.DraftEntry[T]
	now     func() time.Time
}

// NewDraftStore constructs an empty store.
func NewDraftStore[T any]() *DraftStore[T] {
	return &DraftStore[T]{
		entries: map[string]*ports.DraftEntry[T]{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *DraftStore[T]) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Save inserts or replaces the entry.
func (s *DraftStore[T]) Save(_ context.Context, entry ports.DraftEntry[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if entry.TouchedAt.IsZero() {
		entry.TouchedAt = entry.CreatedAt
	}
	s.entries[entry.ID] = &entry
	return nil
}

// Get returns the entry and refreshes its activity time.
func (s *DraftStore[T]) Get(_ context.Context, id string) (*ports.DraftEntry[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, ports.ErrDraftNotFound
	}
	entry.TouchedAt = s.now()
	out := *entry
	return &out, nil
}

// Delete removes and returns the entry.
func (s *DraftStore[T]) Delete(_ context.Context, id string) (*ports.DraftEntry[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, ports.ErrDraftNotFound
	}
	delete(s.entries, id)
	out := *entry
	return &out, nil
}

// IdleSince lists entries untouched since cutoff, oldest first.
func (s *DraftStore[T]) IdleSince(_ context.Context, cutoff time.Time) ([]ports.DraftEntry[T], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var idle []ports.DraftEntry[T]
	for _, entry := range s.entries {
		if entry.TouchedAt.Before(cutoff) {
			idle = append(idle, *entry)
		}
	}
	sort.Slice(idle, func(i, j int) bool { return idle[i].TouchedAt.Before(idle[j].TouchedAt) })
	return idle, nil
}

// Len reports the number of live drafts.
func (s *DraftStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
