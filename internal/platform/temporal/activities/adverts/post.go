package adverts

import (
	"context"
	"errors"
	"net/http"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	advertports "github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

const (
	// CreatePostActivityName calls the backend create-post endpoint.
	CreatePostActivityName = "adverts.activities.CreatePost"
)

// Application error types carried across the workflow boundary.
const (
	ErrorTypeUpstream        = "Upstream"
	ErrorTypeUpstreamTimeout = "UpstreamTimeout"
	ErrorTypeUnauthorized    = "Unauthorized"
	ErrorTypeResponseShape   = "ResponseShape"
	ErrorTypeRejected        = "Rejected"
)

// Activities groups activities that operate on the adverts bounded context.
type Activities struct {
	creator advertports.PostCreator
}

// NewActivities wires the backend post creator into the Temporal activities bundle.
func NewActivities(creator advertports.PostCreator) *Activities {
	return &Activities{creator: creator}
}

// CreatePost sends the payload to the backend and returns the decoded response body.
func (a *Activities) CreatePost(ctx context.Context, cmd adverttypes.CreatePostCommand) (map[string]any, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.creator == nil {
		logger.Error("create post activity not initialized", "draftId", cmd.DraftID)
		return nil, temporal.NewNonRetryableApplicationError("create post activity not initialized", ErrorTypeUpstream, nil)
	}
	logger.Info("CreatePost activity started", "draftId", cmd.DraftID, "attempt", activity.GetInfo(ctx).Attempt)
	body, err := a.creator.CreatePost(ctx, cmd.Token, cmd.Payload)
	if err != nil {
		logger.Error("CreatePost activity failed", "draftId", cmd.DraftID, "error", err)
		return nil, ToApplicationError(err)
	}
	logger.Info("CreatePost activity completed", "draftId", cmd.DraftID)
	return body, nil
}

type statusCoder interface {
	HTTPStatus() int
}

// ToApplicationError classifies a backend failure. Timeouts, transport errors and
// 5xx answers are retried; rejected credentials, other 4xx answers and malformed
// bodies are not.
func ToApplicationError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, advertports.ErrUpstreamTimeout):
		return temporal.NewApplicationErrorWithCause(err.Error(), ErrorTypeUpstreamTimeout, err)
	case errors.Is(err, advertports.ErrUpstreamUnauthorized):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeUnauthorized, err)
	case errors.Is(err, advertports.ErrResponseShape):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeResponseShape, err)
	}
	var coded statusCoder
	if errors.As(err, &coded) {
		status := coded.HTTPStatus()
		if status >= http.StatusBadRequest && status < http.StatusInternalServerError &&
			status != http.StatusRequestTimeout && status != http.StatusTooManyRequests {
			return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeRejected, err)
		}
	}
	return temporal.NewApplicationErrorWithCause(err.Error(), ErrorTypeUpstream, err)
}

// FromApplicationError restores the port error a classified failure stands for.
func FromApplicationError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	var sentinel error
	switch appErr.Type() {
	case ErrorTypeUpstreamTimeout:
		sentinel = advertports.ErrUpstreamTimeout
	case ErrorTypeUnauthorized:
		sentinel = advertports.ErrUpstreamUnauthorized
	case ErrorTypeResponseShape:
		sentinel = advertports.ErrResponseShape
	default:
		sentinel = advertports.ErrUpstream
	}
	if errors.Is(err, sentinel) {
		return err
	}
	return &classifiedError{sentinel: sentinel, msg: appErr.Message()}
}

type classifiedError struct {
	sentinel error
	msg      string
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() error { return e.sentinel }
