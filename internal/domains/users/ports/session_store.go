package ports

import (
	"context"
	"time"

	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
)

// SessionStore abstracts session persistence keyed by access token.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session, expiresAt time.Time) error
	// Load returns ErrNotFound for unknown or expired tokens.
	Load(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

// NoopSessionStore is a safe default when callers do not need session persistence.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(context.Context, domain.Session, time.Time) error { return nil }
func (noopSessionStore) Load(context.Context, string) (*domain.Session, error) {
	return nil, ErrNotFound
}
func (noopSessionStore) Delete(context.Context, string) error        { return nil }
func (noopSessionStore) PurgeExpired(context.Context) (int64, error) { return 0, nil }
