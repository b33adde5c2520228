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

	"github.com/petsetu/petsetu-web/internal/domains/users/application"
	userdomain "github.com/petsetu/petsetu-web/internal/domains/users/domain"
	userports "github.com/petsetu/petsetu-web/internal/domains/users/ports"
)

const tracerName = "github.com/petsetu/petsetu-web/internal/domains/users/adapters/observability/service"

// Service decorates the session service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
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

// New wraps the core session service.
func New(inner userports.Service, opts ...Option) userports.Service {
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

func (s *Service) Login(ctx context.Context, credentials userdomain.Credentials) (*userdomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.Login")
	defer span.End()
	session, err := s.inner.Login(ctx, credentials)
	if err != nil {
		s.metrics.recordLogin(ctx, "failed")
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	span.SetAttributes(attribute.String("user.id", session.User.ID))
	s.metrics.recordLogin(ctx, "succeeded")
	s.logInfo(ctx, "user logged in", slog.String("user_id", session.User.ID))
	return session, nil
}

func (s *Service) Register(ctx context.Context, registration userdomain.Registration) (*userdomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.Register")
	defer span.End()
	session, err := s.inner.Register(ctx, registration)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "registration failed")
	}
	span.SetAttributes(attribute.String("user.id", session.User.ID))
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "user registered", slog.String("user_id", session.User.ID))
	return session, nil
}

func (s *Service) Sync(ctx context.Context, token, expires string) (userdomain.Cookie, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.Sync")
	defer span.End()
	cookie, err := s.inner.Sync(ctx, token, expires)
	if err != nil {
		return userdomain.Cookie{}, s.handleError(ctx, span, err, "session sync rejected")
	}
	span.SetAttributes(attribute.Int64("cookie.max_age_seconds", int64(cookie.MaxAge.Seconds())))
	return cookie, nil
}

func (s *Service) Resolve(ctx context.Context, token string) (*userdomain.Session, error) {
	return s.inner.Resolve(ctx, token)
}

func (s *Service) Clear(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "SessionService.Clear")
	defer span.End()
	if err := s.inner.Clear(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "failed to clear session")
	}
	return nil
}

func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.PurgeExpired")
	defer span.End()
	purged, err := s.inner.PurgeExpired(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to purge sessions")
	}
	span.SetAttributes(attribute.Int64("sessions.purged", purged))
	s.logInfo(ctx, "expired sessions purged", slog.Int64("count", purged))
	return purged, nil
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
	if errors.Is(err, application.ErrInvalidInput) || errors.Is(err, application.ErrAuthentication) {
		level = slog.LevelWarn
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

type serviceMetrics struct {
	logins        metric.Int64Counter
	registrations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("users.sessions.logins", metric.WithDescription("Login attempts by outcome"))
	registrations, _ := m.Int64Counter("users.sessions.registrations", metric.WithDescription("Number of successful registrations"))
	return serviceMetrics{logins: logins, registrations: registrations}
}

func (m serviceMetrics) recordLogin(ctx context.Context, outcome string) {
	if m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registrations != nil {
		m.registrations.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
