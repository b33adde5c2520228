package memory

import (
	"context"
	"sync"
	"time"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

var _ ports.SubmissionStore = (*SubmissionStore)(nil)

// SubmissionStore provides an in-memory implementation for development and tests.
type SubmissionStore struct {
	mu      sync.RWMutex
	records map[string]ports.SubmissionRecord
	now     func() time.Time
}

// NewSubmissionStore constructs an empty in-memory store.
func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{
		records: map[string]ports.SubmissionRecord{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *SubmissionStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Get returns the stored record for the draft, or nil when absent.
func (s *SubmissionStore) Get(_ context.Context, draftID string) (*ports.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[draftID]
	if !ok {
		return nil, nil
	}
	out := cloneRecord(record)
	return &out, nil
}

// Save persists the record or returns the existing record if it matches.
func (s *SubmissionStore) Save(_ context.Context, record ports.SubmissionRecord) (*ports.SubmissionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[record.DraftID]; ok {
		out := cloneRecord(existing)
		if existing.RequestHash != record.RequestHash || existing.PostID != record.PostID {
			return &out, ports.ErrSubmissionConflict
		}
		return &out, nil
	}

	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	record = cloneRecord(record)
	s.records[record.DraftID] = record
	saved := cloneRecord(record)
	return &saved, nil
}

func cloneRecord(r ports.SubmissionRecord) ports.SubmissionRecord {
	r.Photos = append([]string(nil), r.Photos...)
	return r
}
