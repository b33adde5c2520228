package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/application"
	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

const tracerName = "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/observability/service"

// Service decorates the advert application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreateDraft opens a draft for the author.
func (s *Service) CreateDraft(ctx context.Context, author domain.Author) (*adverttypes.DraftView, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateDraft", attribute.String("user.id", author.UserID))
	defer span.End()

	result, err := s.inner.CreateDraft(ctx, author)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create draft", slog.String("user.id", author.UserID))
	}
	span.SetAttributes(attribute.String("draft.id", result.ID))
	s.metrics.recordDraftCreated(ctx)
	s.logInfo(ctx, "draft created", slog.String("draft.id", result.ID), slog.String("user.id", author.UserID))
	return result, nil
}

// GetDraft loads a draft snapshot.
func (s *Service) GetDraft(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.DraftView, error) {
	ctx, span := s.startSpan(ctx, "Service.GetDraft", draftAttrs(ref)...)
	defer span.End()

	result, err := s.inner.GetDraft(ctx, ref)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load draft", slog.String("draft.id", ref.DraftID))
	}
	return result, nil
}

// PatchDraft merges field changes.
func (s *Service) PatchDraft(ctx context.Context, ref adverttypes.DraftRef, patch []byte) (*adverttypes.DraftView, error) {
	ctx, span := s.startSpan(ctx, "Service.PatchDraft", draftAttrs(ref)...)
	defer span.End()

	result, err := s.inner.PatchDraft(ctx, ref, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to patch draft", slog.String("draft.id", ref.DraftID))
	}
	return result, nil
}

// Advance validates the active step and moves forward.
func (s *Service) Advance(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.DraftView, error) {
	ctx, span := s.startSpan(ctx, "Service.Advance", draftAttrs(ref)...)
	defer span.End()

	result, err := s.inner.Advance(ctx, ref)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to advance draft", slog.String("draft.id", ref.DraftID))
	}
	span.SetAttributes(attribute.Int("draft.step", int(result.Step)))
	s.logInfo(ctx, "draft advanced", slog.String("draft.id", ref.DraftID), slog.Int("step", int(result.Step)))
	return result, nil
}

// Retreat moves one step back.
func (s *Service) Retreat(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.DraftView, error) {
	ctx, span := s.startSpan(ctx, "Service.Retreat", draftAttrs(ref)...)
	defer span.End()

	result, err := s.inner.Retreat(ctx, ref)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to retreat draft", slog.String("draft.id", ref.DraftID))
	}
	span.SetAttributes(attribute.Int("draft.step", int(result.Step)))
	return result, nil
}

// ListBreeds returns breeds for the draft category.
func (s *Service) ListBreeds(ctx context.Context, ref adverttypes.DraftRef) ([]domain.Breed, error) {
	ctx, span := s.startSpan(ctx, "Service.ListBreeds", draftAttrs(ref)...)
	defer span.End()

	result, err := s.inner.ListBreeds(ctx, ref)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list breeds", slog.String("draft.id", ref.DraftID))
	}
	span.SetAttributes(attribute.Int("breed.result.count", len(result)))
	return result, nil
}

// SuggestAddress runs an address lookup.
func (s *Service) SuggestAddress(ctx context.Context, ref adverttypes.DraftRef, query string) (*adverttypes.SuggestionView, error) {
	ctx, span := s.startSpan(ctx, "Service.SuggestAddress", draftAttrs(ref)...)
	defer span.End()

	result, err := s.inner.SuggestAddress(ctx, ref, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to suggest address", slog.String("draft.id", ref.DraftID))
	}
	span.SetAttributes(
		attribute.Int("address.result.count", len(result.Suggestions)),
		attribute.Bool("address.superseded", result.Superseded),
	)
	return result, nil
}

// SelectAddress applies a suggestion.
func (s *Service) SelectAddress(ctx context.Context, ref adverttypes.DraftRef, index int) (*adverttypes.DraftView, error) {
	ctx, span := s.startSpan(ctx, "Service.SelectAddress", append(draftAttrs(ref), attribute.Int("address.index", index))...)
	defer span.End()

	result, err := s.inner.SelectAddress(ctx, ref, index)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to select address", slog.String("draft.id", ref.DraftID))
	}
	return result, nil
}

// UploadMedia uploads a batch of files.
func (s *Service) UploadMedia(ctx context.Context, ref adverttypes.DraftRef, files []domain.MediaFile) (*adverttypes.UploadReport, error) {
	ctx, span := s.startSpan(ctx, "Service.UploadMedia", append(draftAttrs(ref), attribute.Int("media.batch.size", len(files)))...)
	defer span.End()

	s.logInfo(ctx, "uploading media", slog.String("draft.id", ref.DraftID), slog.Int("count", len(files)))
	result, err := s.inner.UploadMedia(ctx, ref, files)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to upload media", slog.String("draft.id", ref.DraftID))
	}
	span.SetAttributes(
		attribute.Int("media.added", len(result.Added)),
		attribute.Int("media.failed", len(result.Failures)),
	)
	s.metrics.recordMediaUploaded(ctx, len(result.Added), len(result.Failures))
	s.logInfo(ctx, "media uploaded", slog.String("draft.id", ref.DraftID),
		slog.Int("added", len(result.Added)), slog.Int("failed", len(result.Failures)))
	return result, nil
}

// RemoveMedia drops one uploaded item.
func (s *Service) RemoveMedia(ctx context.Context, ref adverttypes.DraftRef, index int) (*adverttypes.DraftView, error) {
	ctx, span := s.startSpan(ctx, "Service.RemoveMedia", append(draftAttrs(ref), attribute.Int("media.index", index))...)
	defer span.End()

	result, err := s.inner.RemoveMedia(ctx, ref, index)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove media", slog.String("draft.id", ref.DraftID))
	}
	return result, nil
}

// Submit creates the post.
func (s *Service) Submit(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.SubmissionResult, error) {
	ctx, span := s.startSpan(ctx, "Service.Submit", draftAttrs(ref)...)
	defer span.End()

	s.logInfo(ctx, "submitting draft", slog.String("draft.id", ref.DraftID))
	result, err := s.inner.Submit(ctx, ref)
	if err != nil {
		s.metrics.recordSubmission(ctx, false, submissionFailureReason(err))
		return nil, s.handleError(ctx, span, err, "failed to submit draft", slog.String("draft.id", ref.DraftID))
	}
	span.SetAttributes(attribute.String("post.id", result.PostID), attribute.Bool("submission.replayed", result.Replayed))
	s.metrics.recordSubmission(ctx, true, "")
	s.logInfo(ctx, "draft submitted", slog.String("draft.id", ref.DraftID),
		slog.String("post.id", result.PostID), slog.Bool("replayed", result.Replayed))
	return result, nil
}

// Discard drops a draft.
func (s *Service) Discard(ctx context.Context, ref adverttypes.DraftRef) error {
	ctx, span := s.startSpan(ctx, "Service.Discard", draftAttrs(ref)...)
	defer span.End()

	if err := s.inner.Discard(ctx, ref); err != nil {
		return s.handleError(ctx, span, err, "failed to discard draft", slog.String("draft.id", ref.DraftID))
	}
	s.logInfo(ctx, "draft discarded", slog.String("draft.id", ref.DraftID))
	return nil
}

// Preview serves a local preview; no span is recorded for these image fetches.
func (s *Service) Preview(ctx context.Context, handle string) (*ports.Preview, error) {
	return s.inner.Preview(ctx, handle)
}

// SweepIdle disposes idle drafts.
func (s *Service) SweepIdle(ctx context.Context, idleSince time.Time) (int, error) {
	ctx, span := s.startSpan(ctx, "Service.SweepIdle", attribute.String("draft.idle_since", idleSince.UTC().Format(time.RFC3339)))
	defer span.End()

	swept, err := s.inner.SweepIdle(ctx, idleSince)
	if err != nil {
		return swept, s.handleError(ctx, span, err, "failed to sweep idle drafts")
	}
	span.SetAttributes(attribute.Int("draft.swept", swept))
	if swept > 0 {
		s.logInfo(ctx, "swept idle drafts", slog.Int("count", swept))
	}
	return swept, nil
}

func draftAttrs(ref adverttypes.DraftRef) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("draft.id", ref.DraftID),
		attribute.String("user.id", ref.Author.UserID),
	}
}

func submissionFailureReason(err error) string {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return "validation"
	case errors.Is(err, application.ErrNotFinalStep), errors.Is(err, application.ErrSubmissionInProgress), errors.Is(err, application.ErrDraftClosed):
		return "state"
	case errors.Is(err, application.ErrConfiguration):
		return "configuration"
	case errors.Is(err, application.ErrAuthRequired), errors.Is(err, ports.ErrUpstreamUnauthorized):
		return "auth"
	case errors.Is(err, ports.ErrUpstreamTimeout):
		return "timeout"
	case errors.Is(err, ports.ErrResponseShape):
		return "response_shape"
	case errors.Is(err, ports.ErrUpstream):
		return "upstream"
	default:
		return "other"
	}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	level := slog.LevelError
	if errors.Is(err, application.ErrInvalidInput) || errors.Is(err, ports.ErrDraftNotFound) {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	draftsCreated        metric.Int64Counter
	submissionsSucceeded metric.Int64Counter
	submissionsFailed    metric.Int64Counter
	mediaUploaded        metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	draftsCreated, _ := m.Int64Counter("adverts.drafts.created", metric.WithDescription("Number of advert drafts opened"))
	succeeded, _ := m.Int64Counter("adverts.submissions.succeeded", metric.WithDescription("Number of adverts posted"))
	failed, _ := m.Int64Counter("adverts.submissions.failed", metric.WithDescription("Number of failed advert submissions"))
	uploaded, _ := m.Int64Counter("adverts.media.uploaded", metric.WithDescription("Number of media files processed"))
	return serviceMetrics{
		draftsCreated:        draftsCreated,
		submissionsSucceeded: succeeded,
		submissionsFailed:    failed,
		mediaUploaded:        uploaded,
	}
}

func (m serviceMetrics) recordDraftCreated(ctx context.Context) {
	addCounter(ctx, m.draftsCreated, 1)
}

func (m serviceMetrics) recordSubmission(ctx context.Context, ok bool, reason string) {
	if ok {
		addCounter(ctx, m.submissionsSucceeded, 1)
		return
	}
	addCounter(ctx, m.submissionsFailed, 1, attribute.String("reason", reason))
}

func (m serviceMetrics) recordMediaUploaded(ctx context.Context, added, failed int) {
	addCounter(ctx, m.mediaUploaded, int64(added), attribute.String("outcome", "added"))
	addCounter(ctx, m.mediaUploaded, int64(failed), attribute.String("outcome", "failed"))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil || value == 0 {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
