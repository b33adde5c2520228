package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/petsetu/petsetu-web/internal/domains/leads/domain"
	"github.com/petsetu/petsetu-web/internal/domains/leads/ports"
)

var (
	// ErrInvalidInput signals the lead failed validation.
	ErrInvalidInput = errors.New("invalid lead")
	// ErrConfiguration signals the leads backend is not configured.
	ErrConfiguration = errors.New("leads backend not configured")
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

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidPincode) || errors.Is(err, ports.ErrRejected) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
