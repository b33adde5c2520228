package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
)

var (
	// ErrInvalidInput signals the draft values or request violated a validation rule.
	ErrInvalidInput = errors.New("invalid advert input")
	// ErrConfiguration signals a required backend endpoint is not configured.
	ErrConfiguration = errors.New("backend endpoint not configured")
	// ErrAuthRequired signals the caller has no usable session.
	ErrAuthRequired = errors.New("authentication required")
	// ErrNotFinalStep rejects submission attempts before the last step.
	ErrNotFinalStep = errors.New("submission is only allowed from the final step")
	// ErrSubmissionInProgress rejects a second submit while one is running.
	ErrSubmissionInProgress = errors.New("submission already in progress")
	// ErrDraftClosed rejects edits to a draft that was submitted or discarded.
	ErrDraftClosed = errors.New("draft is no longer editable")
	// ErrMediaNotFound indicates the media index is out of range.
	ErrMediaNotFound = errors.New("media item not found")
	// ErrSuggestionNotFound indicates the suggestion index is out of range.
	ErrSuggestionNotFound = errors.New("address suggestion not found")
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

func newValidationError(fields domain.FieldErrors) error {
	return &ValidationError{Fields: fields.Clone()}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnknownCategory) || errors.Is(err, domain.ErrUnknownField) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
