package backend

import (
	"errors"
	"fmt"
	"net/http"

	backendclient "github.com/petsetu/petsetu-web/internal/clients/http/backend"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

var errNotConfigured = errors.New("backend client not configured")

// MapError translates backend client failures into advert port errors while
// keeping the original error in the chain.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var statusErr *backendclient.StatusError
	switch {
	case errors.Is(err, backendclient.ErrTimeout):
		return fmt.Errorf("%w: %w", ports.ErrUpstreamTimeout, err)
	case errors.Is(err, backendclient.ErrInvalidResponse):
		return fmt.Errorf("%w: %w", ports.ErrResponseShape, err)
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ports.ErrUpstreamUnauthorized, err)
	default:
		return fmt.Errorf("%w: %w", ports.ErrUpstream, err)
	}
}
