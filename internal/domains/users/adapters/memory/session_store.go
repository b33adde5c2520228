package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
	"github.com/petsetu/petsetu-web/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

type storedSession struct {
	session   domain.Session
	expiresAt time.Time
}

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]storedSession
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]storedSession{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *SessionStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session, expiresAt time.Time) error {
	token := strings.TrimSpace(session.AccessToken())
	if token == "" {
		return errors.New("access token is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = storedSession{session: cloneSession(session), expiresAt: expiresAt}
	return nil
}

func (s *SessionStore) Load(_ context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.sessions[token]
	if !ok || s.expired(stored) {
		return nil, ports.ErrNotFound
	}
	out := cloneSession(stored.session)
	return &out, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for token, stored := range s.sessions {
		if s.expired(stored) {
			delete(s.sessions, token)
			purged++
		}
	}
	return purged, nil
}

func (s *SessionStore) expired(stored storedSession) bool {
	return !stored.expiresAt.IsZero() && !stored.expiresAt.After(s.now())
}

func cloneSession(in domain.Session) domain.Session {
	in.User.UserType = append([]string(nil), in.User.UserType...)
	return in
}
