package ports

import (
	"context"
	"errors"

	"github.com/petsetu/petsetu-web/internal/domains/leads/domain"
)

var (
	ErrRejected        = errors.New("lead rejected by backend")
	ErrUpstream        = errors.New("leads backend request failed")
	ErrUpstreamTimeout = errors.New("leads backend request timed out")
)

// Gateway forwards leads. The token is optional.
type Gateway interface {
	Submit(ctx context.Context, token string, lead domain.Lead) (*domain.Receipt, error)
}
