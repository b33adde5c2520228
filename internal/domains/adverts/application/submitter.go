package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

// DefaultSubmitTimeout bounds the create-post call.
const DefaultSubmitTimeout = 30 * time.Second

// Submitter assembles the final payload of a draft and creates the post.
type Submitter struct {
	workflows   ports.WorkflowOrchestrator
	submissions ports.SubmissionStore
	configured  bool
	timeout     time.Duration
	logger      *slog.Logger
}

// SubmitterOption customizes a Submitter.
type SubmitterOption func(*Submitter)

// WithSubmitTimeout bounds the create-post call.
func WithSubmitTimeout(d time.Duration) SubmitterOption {
	return func(s *Submitter) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSubmitterLogger injects a logger.
func WithSubmitterLogger(logger *slog.Logger) SubmitterOption {
	return func(s *Submitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSubmitter wires a submitter. configured reports whether the backend endpoint is set.
func NewSubmitter(workflows ports.WorkflowOrchestrator, submissions ports.SubmissionStore, configured bool, opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		workflows:   workflows,
		submissions: submissions,
		configured:  configured && workflows != nil,
		timeout:     DefaultSubmitTimeout,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit runs only from the last step. Local validation failures leave the step
// untouched. Configuration and auth guards fail before any network call. Any
// failure after the request starts resets the form to the first step, keeps the
// entered values and records a notice. Submitting a draft that already produced
// a post returns the recorded result.
func (s *Submitter) Submit(ctx context.Context, ws *Workspace, draftID string, author domain.Author) (*adverttypes.SubmissionResult, error) {
	if ws.Phase() == adverttypes.PhaseNavigated {
		return s.resubmit(ctx, ws, draftID)
	}
	if err := ws.ensureEditing(); err != nil {
		return nil, err
	}
	if ws.Form.Step() != domain.LastStep {
		return nil, ErrNotFinalStep
	}
	values, errs := ws.Form.ValidateAll()
	if !errs.Empty() {
		return nil, newValidationError(errs)
	}
	if !s.configured {
		ws.notice("Config error: API base not set")
		return nil, ErrConfiguration
	}
	if !author.Authenticated() {
		ws.notice("Auth required: Please login again")
		return nil, ErrAuthRequired
	}
	if err := ws.beginSubmit(); err != nil {
		return nil, err
	}

	result, err := s.create(ctx, draftID, values, ws.Media.RemoteFileNames(), author)
	if err != nil {
		ws.Form.ResetStep()
		ws.abortSubmit()
		ws.notice("Failed to post: " + err.Error())
		return nil, err
	}
	ws.finishSubmit(result)
	ws.notice("Ad posted: Your ad is live.")
	return result, nil
}

// resubmit answers a retried submit of a navigated draft from the submission
// record, falling back to the result the workspace remembers.
func (s *Submitter) resubmit(ctx context.Context, ws *Workspace, draftID string) (*adverttypes.SubmissionResult, error) {
	if s.submissions != nil {
		existing, err := s.submissions.Get(ctx, draftID)
		if err != nil {
			s.logger.Warn("failed to load submission record", slog.String("draft.id", draftID), slog.String("error", err.Error()))
		} else if existing != nil && existing.PostID != "" {
			return &adverttypes.SubmissionResult{PostID: existing.PostID, Location: PostLocation(existing.PostID), Replayed: true}, nil
		}
	}
	result := ws.submission()
	if result == nil {
		return nil, ErrDraftClosed
	}
	result.Replayed = true
	return result, nil
}

func (s *Submitter) create(ctx context.Context, draftID string, values domain.Values, photos []string, author domain.Author) (*adverttypes.SubmissionResult, error) {
	payload, err := domain.BuildPayload(values, photos, author)
	if err != nil {
		return nil, mapError(err)
	}
	hash, err := FingerprintPayload(payload)
	if err != nil {
		return nil, err
	}
	if replayed := s.replay(ctx, draftID, hash); replayed != nil {
		return replayed, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	body, err := s.workflows.CreatePost(ctx, adverttypes.CreatePostCommand{
		DraftID:     draftID,
		Token:       author.Token,
		RequestHash: hash,
		Payload:     payload,
	})
	if err != nil {
		return nil, err
	}
	postID, ok := domain.ExtractPostID(body)
	if !ok {
		return nil, fmt.Errorf("%w: missing post id in response", ports.ErrResponseShape)
	}
	s.record(ctx, ports.SubmissionRecord{
		DraftID:     draftID,
		RequestHash: hash,
		PostID:      postID,
		OwnerID:     author.UserID,
		Photos:      payload.Photos,
	})
	return &adverttypes.SubmissionResult{PostID: postID, Location: PostLocation(postID)}, nil
}

func (s *Submitter) replay(ctx context.Context, draftID, hash string) *adverttypes.SubmissionResult {
	if s.submissions == nil {
		return nil
	}
	existing, err := s.submissions.Get(ctx, draftID)
	if err != nil {
		s.logger.Warn("failed to load submission record", slog.String("draft.id", draftID), slog.String("error", err.Error()))
		return nil
	}
	if existing == nil || existing.RequestHash != hash || existing.PostID == "" {
		return nil
	}
	return &adverttypes.SubmissionResult{PostID: existing.PostID, Location: PostLocation(existing.PostID), Replayed: true}
}

func (s *Submitter) record(ctx context.Context, record ports.SubmissionRecord) {
	if s.submissions == nil {
		return
	}
	if _, err := s.submissions.Save(context.WithoutCancel(ctx), record); err != nil {
		level := slog.LevelError
		if errors.Is(err, ports.ErrSubmissionConflict) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "failed to record submission",
			slog.String("draft.id", record.DraftID),
			slog.String("post.id", record.PostID),
			slog.String("error", err.Error()))
	}
}

// PostLocation is the navigation target for a created post.
func PostLocation(postID string) string {
	return "/post/" + url.PathEscape(postID)
}
