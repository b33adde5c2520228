package application

import (
	"errors"
	"fmt"

	"github.com/petsetu/petsetu-web/internal/domains/listings/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid listing query")
	// ErrConfiguration signals the listings backend is not configured.
	ErrConfiguration = errors.New("listings backend not configured")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidPostType) ||
		errors.Is(err, domain.ErrInvalidCategory) ||
		errors.Is(err, domain.ErrEmptyPostID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
