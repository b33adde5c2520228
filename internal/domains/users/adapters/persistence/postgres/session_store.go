package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
	userports "github.com/petsetu/petsetu-web/internal/domains/users/ports"
)

// SessionStore persists user sessions in PostgreSQL.
type SessionStore struct {
	db       *gorm.DB
	sessionT time.Duration
	now      func() time.Time
}

// DefaultSessionTTL provides the fallback TTL when the caller passes no expiry.
const DefaultSessionTTL = 24 * time.Hour

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB, sessionTTL time.Duration) *SessionStore {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &SessionStore{db: db, sessionT: sessionTTL, now: time.Now}
}

type sessionRecord struct {
	Token     string        `gorm:"primaryKey;column:token;size:1024"`
	UserID    string        `gorm:"column:user_id;size:64;index"`
	User      domain.User   `gorm:"column:user_profile;serializer:json"`
	Tokens    domain.Tokens `gorm:"column:tokens;serializer:json"`
	ExpiresAt *time.Time    `gorm:"column:expires_at;index"`
	CreatedAt time.Time     `gorm:"column:created_at;index"`
	UpdatedAt time.Time     `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Save upserts a session keyed by its access token.
func (s *SessionStore) Save(ctx context.Context, session domain.Session, expiresAt time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token := strings.TrimSpace(session.AccessToken())
	if token == "" {
		return errors.New("access token is required")
	}
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.sessionT)
	}
	rec := sessionRecord{
		Token:     token,
		UserID:    session.User.ID,
		User:      session.User,
		Tokens:    session.Tokens,
		ExpiresAt: &expiresAt,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "user_profile", "tokens", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Load returns the unexpired session for token.
func (s *SessionStore) Load(ctx context.Context, token string) (*domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec sessionRecord
	err := s.db.WithContext(ctx).
		Where("token = ? AND (expires_at IS NULL OR expires_at > ?)", token, s.now()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userports.ErrNotFound
		}
		return nil, err
	}
	return &domain.Session{User: rec.User, Tokens: rec.Tokens}, nil
}

// Delete removes a session by token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "token = ?", token).Error
}

// PurgeExpired removes all expired sessions. Use for housekeeping or cron.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).Delete(&sessionRecord{})
	return result.RowsAffected, result.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}

var _ userports.SessionStore = (*SessionStore)(nil)
