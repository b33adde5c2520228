package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
	"github.com/petsetu/petsetu-web/internal/domains/users/ports"
)

// Service exposes session use cases: backend login and registration, cookie sync and
// token resolution for incoming requests.
type Service struct {
	auth      ports.Authenticator
	sessions  ports.SessionStore
	validator *domain.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// Option customizes the Service.
type Option func(*Service)

// WithLogger injects a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the session service. A nil authenticator makes Login and Register
// report ErrConfiguration.
func NewService(auth ports.Authenticator, sessions ports.SessionStore, opts ...Option) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	s := &Service{
		auth:      auth,
		sessions:  sessions,
		validator: domain.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Login validates credentials, authenticates at the backend and persists the session.
func (s *Service) Login(ctx context.Context, credentials domain.Credentials) (*domain.Session, error) {
	credentials.Email = strings.TrimSpace(credentials.Email)
	if errs := s.validator.Check(credentials); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if s.auth == nil {
		return nil, ErrConfiguration
	}
	session, err := s.auth.Login(ctx, credentials)
	if err != nil {
		return nil, mapError(err)
	}
	return s.persist(ctx, session)
}

// Register applies sign-up defaults, creates the account and persists the session.
func (s *Service) Register(ctx context.Context, registration domain.Registration) (*domain.Session, error) {
	registration.ApplyDefaults()
	if errs := s.validator.Check(registration); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if s.auth == nil {
		return nil, ErrConfiguration
	}
	session, err := s.auth.Register(ctx, registration)
	if err != nil {
		return nil, mapError(err)
	}
	return s.persist(ctx, session)
}

func (s *Service) persist(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if session == nil || strings.TrimSpace(session.AccessToken()) == "" {
		return nil, fmt.Errorf("%w: response carried no access token", ports.ErrUpstream)
	}
	now := s.now()
	expiresAt := now.Add(domain.CookieMaxAge(session.Tokens.Access.Expires, now))
	if err := s.sessions.Save(ctx, *session, expiresAt); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return session, nil
}

// Sync computes the cookie for a token obtained elsewhere. It does not create a
// server-side session: the token resolves to an anonymous bearer until a login here.
func (s *Service) Sync(_ context.Context, token, expires string) (domain.Cookie, error) {
	cookie, err := domain.NewCookie(token, expires, s.now())
	if err != nil {
		return domain.Cookie{}, mapError(err)
	}
	return cookie, nil
}

// Resolve maps a request token onto its stored session. Tokens without a stored
// session resolve to a bearer-only session so backend calls can still forward them.
func (s *Service) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrAuthRequired
	}
	session, err := s.sessions.Load(ctx, token)
	if err == nil && session != nil {
		return session, nil
	}
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		s.logger.Warn("session lookup failed", slog.String("error", err.Error()))
	}
	return &domain.Session{Tokens: domain.Tokens{Access: domain.Token{Value: token}}}, nil
}

// Clear drops the stored session of token. Unknown tokens are not an error.
func (s *Service) Clear(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil && !errors.Is(err, ports.ErrNotFound) {
		return err
	}
	return nil
}

// PurgeExpired removes expired sessions and reports how many were dropped.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.PurgeExpired(ctx)
}

var _ ports.Service = (*Service)(nil)
