package ports

import (
	"context"
	"errors"

	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
)

var (
	ErrNotFound           = errors.New("session not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUpstream           = errors.New("auth backend request failed")
	ErrUpstreamTimeout    = errors.New("auth backend request timed out")
	ErrRejected           = errors.New("request rejected by auth backend")
)

// Authenticator exchanges credentials for tokens at the backend.
type Authenticator interface {
	Login(ctx context.Context, credentials domain.Credentials) (*domain.Session, error)
	Register(ctx context.Context, registration domain.Registration) (*domain.Session, error)
}
