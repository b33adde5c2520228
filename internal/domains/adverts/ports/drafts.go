package ports

import (
	"context"
	"time"
)

// DraftEntry wraps a live draft workspace with ownership and activity metadata.
type DraftEntry[T any] struct {
	ID        string
	OwnerID   string
	Value     T
	CreatedAt time.Time
	TouchedAt time.Time
}

// DraftStore keeps live drafts keyed by id.
type DraftStore[T any] interface {
	Save(ctx context.Context, entry DraftEntry[T]) error
	// Get returns the entry and refreshes its activity time, or ErrDraftNotFound.
	Get(ctx context.Context, id string) (*DraftEntry[T], error)
	// Delete removes and returns the entry, or ErrDraftNotFound.
	Delete(ctx context.Context, id string) (*DraftEntry[T], error)
	// IdleSince returns entries untouched since cutoff.
	IdleSince(ctx context.Context, cutoff time.Time) ([]DraftEntry[T], error)
}
