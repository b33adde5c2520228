package ports

import (
	"context"

	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
)

// Service exposes session use cases to adapters.
type Service interface {
	Login(ctx context.Context, credentials domain.Credentials) (*domain.Session, error)
	Register(ctx context.Context, registration domain.Registration) (*domain.Session, error)
	Sync(ctx context.Context, token, expires string) (domain.Cookie, error)
	Resolve(ctx context.Context, token string) (*domain.Session, error)
	Clear(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) (int64, error)
}
