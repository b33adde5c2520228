package ports

import "errors"

var (
	// ErrDraftNotFound indicates the draft does not exist or belongs to another user.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrPreviewNotFound indicates the preview handle was never issued or already revoked.
	ErrPreviewNotFound = errors.New("preview not found")
	// ErrUpstream covers backend transport failures and non-2xx answers.
	ErrUpstream = errors.New("backend request failed")
	// ErrUpstreamTimeout is reported instead of ErrUpstream when the backend did not answer in time.
	ErrUpstreamTimeout = errors.New("backend request timed out")
	// ErrUpstreamUnauthorized indicates the backend rejected the bearer token.
	ErrUpstreamUnauthorized = errors.New("backend rejected credentials")
	// ErrResponseShape indicates a 2xx answer without the expected fields.
	ErrResponseShape = errors.New("unexpected backend response shape")
	// ErrSubmissionConflict indicates a draft was already submitted with a different payload.
	ErrSubmissionConflict = errors.New("submission conflict")
)
