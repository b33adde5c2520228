package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
	"github.com/petsetu/petsetu-web/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the request violated a validation rule.
	ErrInvalidInput = errors.New("invalid session input")
	// ErrAuthentication wraps authentication failures.
	ErrAuthentication = errors.New("authentication failed")
	// ErrAuthRequired signals the request carries no session token.
	ErrAuthRequired = errors.New("authentication required")
	// ErrConfiguration signals the auth backend is not configured.
	ErrConfiguration = errors.New("auth backend not configured")
)

// ValidationError carries field-scoped messages. It matches ErrInvalidInput.
type ValidationError struct {
	Fields domain.FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports ErrInvalidInput equivalence.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyToken) || errors.Is(err, ports.ErrRejected) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrInvalidCredentials) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return err
}
