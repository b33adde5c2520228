package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/petsetu/petsetu-web/internal/domains/listings/application"
	"github.com/petsetu/petsetu-web/internal/domains/listings/domain"
	"github.com/petsetu/petsetu-web/internal/domains/listings/ports"
)

const tracerName = "github.com/petsetu/petsetu-web/internal/domains/listings/adapters/observability/service"

// Service decorates the listings service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

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

func (s *Service) Search(ctx context.Context, query domain.SearchQuery) (*domain.Page, error) {
	ctx, span := s.tracer.Start(ctx, "ListingsService.Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("listings.post_type", query.PostType),
		attribute.String("listings.category", query.Category),
		attribute.Int("listings.page", query.Page),
	)
	page, err := s.inner.Search(ctx, query)
	if err != nil {
		s.metrics.recordSearch(ctx, "failed")
		return nil, s.handleError(ctx, span, err, "listing search failed")
	}
	span.SetAttributes(attribute.Int("listings.total_results", page.TotalResults))
	s.metrics.recordSearch(ctx, "succeeded")
	return page, nil
}

func (s *Service) GetPost(ctx context.Context, token, id string) (*domain.Post, error) {
	ctx, span := s.tracer.Start(ctx, "ListingsService.GetPost")
	defer span.End()
	span.SetAttributes(attribute.String("post.id", id))
	post, err := s.inner.GetPost(ctx, token, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load post", slog.String("post_id", id))
	}
	return post, nil
}

func (s *Service) Sitemap(ctx context.Context) ([]domain.SitemapEntry, error) {
	ctx, span := s.tracer.Start(ctx, "ListingsService.Sitemap")
	defer span.End()
	entries, err := s.inner.Sitemap(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build sitemap")
	}
	span.SetAttributes(attribute.Int("sitemap.urls", len(entries)))
	s.logInfo(ctx, "sitemap built", slog.Int("urls", len(entries)))
	return entries, nil
}

func (s *Service) Robots(ctx context.Context) domain.Robots {
	return s.inner.Robots(ctx)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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
	level := slog.LevelError
	if errors.Is(err, application.ErrInvalidInput) || errors.Is(err, ports.ErrNotFound) || errors.Is(err, ports.ErrUnauthorized) {
		level = slog.LevelWarn
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

type serviceMetrics struct {
	searches metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	searches, _ := m.Int64Counter("listings.searches", metric.WithDescription("Listing searches by outcome"))
	return serviceMetrics{searches: searches}
}

func (m serviceMetrics) recordSearch(ctx context.Context, outcome string) {
	if m.searches != nil {
		m.searches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ ports.Service = (*Service)(nil)
