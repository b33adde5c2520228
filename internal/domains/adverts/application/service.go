package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

// Dependencies are the outbound collaborators of the advert service.
type Dependencies struct {
	Drafts      ports.DraftStore[*Workspace]
	Previews    ports.PreviewStore
	Geocoder    ports.Geocoder
	Uploader    ports.MediaUploader
	Breeds      ports.BreedCatalog
	Workflows   ports.WorkflowOrchestrator
	Submissions ports.SubmissionStore
	// BackendConfigured reports whether the backend base URL is set.
	BackendConfigured bool
}

// Service orchestrates the advert draft use cases.
type Service struct {
	deps      Dependencies
	validator *domain.Validator
	submitter *Submitter
	logger    *slog.Logger
	now       func() time.Time
	newID     func() (string, error)

	suggestOpts []SuggesterOption
	mediaOpts   []MediaOption
}

// Option customizes the Service.
type Option func(*Service)

// WithLogger injects a logger shared with the draft components.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides draft id generation.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithSuggesterOptions applies options to every draft's address suggester.
func WithSuggesterOptions(opts ...SuggesterOption) Option {
	return func(s *Service) {
		s.suggestOpts = append(s.suggestOpts, opts...)
	}
}

// WithMediaOptions applies options to every draft's media orchestrator.
func WithMediaOptions(opts ...MediaOption) Option {
	return func(s *Service) {
		s.mediaOpts = append(s.mediaOpts, opts...)
	}
}

// WithSubmitter replaces the default submitter.
func WithSubmitter(submitter *Submitter) Option {
	return func(s *Service) {
		if submitter != nil {
			s.submitter = submitter
		}
	}
}

// NewService wires the advert service with its dependencies.
func NewService(deps Dependencies, opts ...Option) *Service {
	s := &Service{
		deps:      deps,
		validator: domain.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		newID:     func() (string, error) { return gonanoid.New() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.submitter == nil {
		s.submitter = NewSubmitter(deps.Workflows, deps.Submissions, deps.BackendConfigured, WithSubmitterLogger(s.logger))
	}
	return s
}

// CreateDraft opens a new draft with default values on the first step.
func (s *Service) CreateDraft(ctx context.Context, author domain.Author) (*adverttypes.DraftView, error) {
	if !author.Authenticated() {
		return nil, ErrAuthRequired
	}
	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate draft id: %w", err)
	}
	now := s.now()
	form := NewFormState(s.validator)
	suggestOpts := append([]SuggesterOption{WithSuggesterLogger(s.logger)}, s.suggestOpts...)
	mediaOpts := append([]MediaOption{WithMediaLogger(s.logger)}, s.mediaOpts...)
	ws := newWorkspace(
		form,
		NewAddressSuggester(s.deps.Geocoder, form, suggestOpts...),
		NewMediaOrchestrator(s.deps.Uploader, s.deps.Previews, mediaOpts...),
		now,
	)
	entry := ports.DraftEntry[*Workspace]{ID: id, OwnerID: author.UserID, Value: ws, CreatedAt: now, TouchedAt: now}
	if err := s.deps.Drafts.Save(ctx, entry); err != nil {
		ws.Close(ctx)
		return nil, mapError(err)
	}
	return ws.view(id), nil
}

// GetDraft returns the current draft snapshot.
func (s *Service) GetDraft(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.DraftView, error) {
	ws, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return ws.view(ref.DraftID), nil
}

// PatchDraft merges field changes into the draft values.
func (s *Service) PatchDraft(ctx context.Context, ref adverttypes.DraftRef, patch []byte) (*adverttypes.DraftView, error) {
	ws, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := ws.edit(func() error { return ws.Form.Patch(patch) }); err != nil {
		return nil, mapError(err)
	}
	ws.touch(s.now())
	return ws.view(ref.DraftID), nil
}

// Advance validates the active step and moves forward on success.
func (s *Service) Advance(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.DraftView, error) {
	ws, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	var errs domain.FieldErrors
	if err := ws.edit(func() error {
		_, errs = ws.Form.Advance()
		return nil
	}); err != nil {
		return nil, err
	}
	if !errs.Empty() {
		return nil, newValidationError(errs)
	}
	ws.touch(s.now())
	return ws.view(ref.DraftID), nil
}

// Retreat moves one step back without validating.
func (s *Service) Retreat(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.DraftView, error) {
	ws, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := ws.edit(func() error {
		ws.Form.Retreat()
		return nil
	}); err != nil {
		return nil, err
	}
	ws.touch(s.now())
	return ws.view(ref.DraftID), nil
}

// ListBreeds returns the breeds of the draft's category. Missing configuration,
// a missing token or a failed lookup yield an empty list and a notice.
func (s *Service) ListBreeds(ctx context.Context, ref adverttypes.DraftRef) ([]domain.Breed, error) {
	ws, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	categoryID, ok := domain.CategoryID(ws.Form.Values().PetCategoryKey)
	if !ok || !s.deps.BackendConfigured || s.deps.Breeds == nil || strings.TrimSpace(ref.Author.Token) == "" {
		return []domain.Breed{}, nil
	}
	breeds, err := s.deps.Breeds.ListBreeds(ctx, ref.Author.Token, categoryID)
	if err != nil {
		s.logger.Warn("breed lookup failed", slog.String("draft.id", ref.DraftID), slog.String("error", err.Error()))
		ws.notice("Breed list error: " + err.Error())
		return []domain.Breed{}, nil
	}
	if breeds == nil {
		breeds = []domain.Breed{}
	}
	return breeds, nil
}

// SuggestAddress runs a debounced, last-query-wins address lookup.
func (s *Service) SuggestAddress(ctx context.Context, ref adverttypes.DraftRef, query string) (*adverttypes.SuggestionView, error) {
	ws, err := s.loadEditable(ctx, ref)
	if err != nil {
		return nil, err
	}
	if s.deps.Geocoder == nil {
		return &adverttypes.SuggestionView{Query: query}, nil
	}
	result, err := ws.Address.Suggest(ctx, query)
	if err != nil {
		return nil, err
	}
	return &adverttypes.SuggestionView{Query: result.Query, Suggestions: result.Suggestions, Superseded: result.Superseded}, nil
}

// SelectAddress applies the suggestion at index to the address block.
func (s *Service) SelectAddress(ctx context.Context, ref adverttypes.DraftRef, index int) (*adverttypes.DraftView, error) {
	ws, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := ws.edit(func() error {
		_, err := ws.Address.Select(index)
		return err
	}); err != nil {
		return nil, err
	}
	ws.touch(s.now())
	return ws.view(ref.DraftID), nil
}

// UploadMedia uploads a batch of files and appends the successes in selection order.
func (s *Service) UploadMedia(ctx context.Context, ref adverttypes.DraftRef, files []domain.MediaFile) (*adverttypes.UploadReport, error) {
	ws, err := s.loadEditable(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !s.deps.BackendConfigured || s.deps.Uploader == nil {
		return nil, ErrConfiguration
	}
	if !ref.Author.Authenticated() {
		ws.notice("Auth required: Please login again")
		return nil, ErrAuthRequired
	}
	added, failures, err := ws.Media.Upload(ctx, ref.Author.Token, files)
	if err != nil {
		return nil, err
	}
	for _, f := range failures {
		ws.notice(fmt.Sprintf("Upload error: %s: %s", f.FileName, f.Reason))
	}
	if len(added) > 0 {
		ws.notice(fmt.Sprintf("Uploaded: %d photo(s) added", len(added)))
	}
	ws.touch(s.now())
	return &adverttypes.UploadReport{Added: added, Failures: failures, Draft: ws.view(ref.DraftID)}, nil
}

// RemoveMedia drops one uploaded item and revokes its preview.
func (s *Service) RemoveMedia(ctx context.Context, ref adverttypes.DraftRef, index int) (*adverttypes.DraftView, error) {
	ws, err := s.loadEditable(ctx, ref)
	if err != nil {
		return nil, err
	}
	if _, err := ws.Media.Remove(ctx, index); err != nil {
		return nil, err
	}
	ws.touch(s.now())
	return ws.view(ref.DraftID), nil
}

// Submit creates the post from the final step. A successful submit releases the
// draft's previews and keeps it as a navigated entry until the idle sweep, so a
// retried submit replays the created post.
func (s *Service) Submit(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.SubmissionResult, error) {
	ws, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	result, err := s.submitter.Submit(ctx, ws, ref.DraftID, ref.Author)
	ws.touch(s.now())
	if err != nil {
		return nil, err
	}
	ws.Close(ctx)
	return result, nil
}

// Discard drops the draft and releases every preview it holds.
func (s *Service) Discard(ctx context.Context, ref adverttypes.DraftRef) error {
	if _, err := s.load(ctx, ref); err != nil {
		return err
	}
	s.dispose(ctx, ref.DraftID)
	return nil
}

// Preview returns the locally held copy of a selected file.
func (s *Service) Preview(ctx context.Context, handle string) (*ports.Preview, error) {
	if s.deps.Previews == nil {
		return nil, ports.ErrPreviewNotFound
	}
	return s.deps.Previews.Get(ctx, handle)
}

// SweepIdle disposes drafts untouched since idleSince and reports how many were dropped.
func (s *Service) SweepIdle(ctx context.Context, idleSince time.Time) (int, error) {
	idle, err := s.deps.Drafts.IdleSince(ctx, idleSince)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, entry := range idle {
		if entry.Value != nil && entry.Value.Phase() == adverttypes.PhaseSubmitting {
			continue
		}
		if s.dispose(ctx, entry.ID) {
			swept++
		}
	}
	return swept, nil
}

func (s *Service) dispose(ctx context.Context, id string) bool {
	entry, err := s.deps.Drafts.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, ports.ErrDraftNotFound) {
			s.logger.Warn("failed to delete draft", slog.String("draft.id", id), slog.String("error", err.Error()))
		}
		return false
	}
	if entry.Value != nil {
		entry.Value.Close(ctx)
	}
	return true
}

func (s *Service) load(ctx context.Context, ref adverttypes.DraftRef) (*Workspace, error) {
	if strings.TrimSpace(ref.Author.UserID) == "" {
		return nil, ErrAuthRequired
	}
	entry, err := s.deps.Drafts.Get(ctx, ref.DraftID)
	if err != nil {
		return nil, mapError(err)
	}
	if entry.OwnerID != ref.Author.UserID || entry.Value == nil {
		return nil, ports.ErrDraftNotFound
	}
	return entry.Value, nil
}

func (s *Service) loadEditable(ctx context.Context, ref adverttypes.DraftRef) (*Workspace, error) {
	ws, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := ws.ensureEditing(); err != nil {
		return nil, err
	}
	return ws, nil
}

var _ ports.Service = (*Service)(nil)
