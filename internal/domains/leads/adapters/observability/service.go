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

	"github.com/petsetu/petsetu-web/internal/domains/leads/application"
	"github.com/petsetu/petsetu-web/internal/domains/leads/domain"
	"github.com/petsetu/petsetu-web/internal/domains/leads/ports"
)

const tracerName = "github.com/petsetu/petsetu-web/internal/domains/leads/adapters/observability/service"

// Service decorates the leads service with tracing, logging, and metrics.
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
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) SubmitRequirement(ctx context.Context, token string, input domain.Requirement) (*domain.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "LeadsService.SubmitRequirement")
	defer span.End()
	receipt, err := s.inner.SubmitRequirement(ctx, token, input)
	return s.finish(ctx, span, domain.TypeRequirement, receipt, err)
}

func (s *Service) SubmitEnquiry(ctx context.Context, token string, input domain.Enquiry) (*domain.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "LeadsService.SubmitEnquiry")
	defer span.End()
	receipt, err := s.inner.SubmitEnquiry(ctx, token, input)
	return s.finish(ctx, span, domain.TypeEnquiry, receipt, err)
}

func (s *Service) finish(ctx context.Context, span trace.Span, leadType string, receipt *domain.Receipt, err error) (*domain.Receipt, error) {
	span.SetAttributes(attribute.String("lead.type", leadType))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		level := slog.LevelError
		if errors.Is(err, application.ErrInvalidInput) {
			level = slog.LevelWarn
		}
		s.logger.LogAttrs(ctx, level, "lead submission failed", slog.String("lead_type", leadType), slog.String("error", err.Error()))
		return nil, err
	}
	s.metrics.recordSubmitted(ctx, leadType)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "lead submitted", slog.String("lead_type", leadType), slog.String("lead_id", receipt.ID))
	return receipt, nil
}

type serviceMetrics struct {
	submitted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	submitted, _ := m.Int64Counter("leads.submitted", metric.WithDescription("Leads forwarded to the backend by type"))
	return serviceMetrics{submitted: submitted}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context, leadType string) {
	if m.submitted != nil {
		m.submitted.Add(ctx, 1, metric.WithAttributes(attribute.String("lead.type", leadType)))
	}
}

var _ ports.Service = (*Service)(nil)
