package ports

import (
	"context"
	"time"
)

// SubmissionRecord remembers which post a draft produced so retries can be replayed.
type SubmissionRecord struct {
	DraftID     string
	RequestHash string
	PostID      string
	OwnerID     string
	Photos      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SubmissionStore persists submission records keyed by draft id.
type SubmissionStore interface {
	// Get returns the stored record for the draft, or nil when unknown.
	Get(ctx context.Context, draftID string) (*SubmissionRecord, error)
	// Save persists the record. When the draft already has a record with a different hash
	// or post, ErrSubmissionConflict is returned with the stored record.
	Save(ctx context.Context, record SubmissionRecord) (*SubmissionRecord, error)
}
