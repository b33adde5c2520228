package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

var _ ports.SubmissionStore = (*SubmissionStore)(nil)

// SubmissionStore persists submission records in PostgreSQL.
type SubmissionStore struct {
	db *gorm.DB
}

// NewSubmissionStore wires a PostgreSQL-backed submission store. Caller owns DB lifecycle.
func NewSubmissionStore(db *gorm.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// Get loads the record of a draft, returning nil when absent.
func (s *SubmissionStore) Get(ctx context.Context, draftID string) (*ports.SubmissionRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record submissionRecord
	if err := s.db.WithContext(ctx).First(&record, "draft_id = ?", draftID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPortRecord(&record), nil
}

// Save inserts the record. An existing row for the draft is returned as is when it
// matches, otherwise ErrSubmissionConflict is returned with the stored record.
func (s *SubmissionStore) Save(ctx context.Context, record ports.SubmissionRecord) (*ports.SubmissionRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	dbRecord := toDBRecord(record)
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "draft_id"}}, DoNothing: true}).
		Create(&dbRecord)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return toPortRecord(&dbRecord), nil
	}
	existing, err := s.Get(ctx, record.DraftID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.New("submission record vanished after conflict")
	}
	if existing.RequestHash != record.RequestHash || existing.PostID != record.PostID {
		return existing, ports.ErrSubmissionConflict
	}
	return existing, nil
}

func (s *SubmissionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres submission store not configured")
	}
	return nil
}

type submissionRecord struct {
	DraftID     string         `gorm:"primaryKey;column:draft_id;size:64"`
	RequestHash string         `gorm:"column:request_hash;size:128"`
	PostID      string         `gorm:"column:post_id;size:64;index"`
	OwnerID     string         `gorm:"column:owner_id;size:64;index"`
	Photos      pq.StringArray `gorm:"column:photos;type:text[]"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (submissionRecord) TableName() string { return "advert_submissions" }

func toDBRecord(rec ports.SubmissionRecord) submissionRecord {
	return submissionRecord{
		DraftID:     rec.DraftID,
		RequestHash: rec.RequestHash,
		PostID:      rec.PostID,
		OwnerID:     rec.OwnerID,
		Photos:      pq.StringArray(append([]string(nil), rec.Photos...)),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func toPortRecord(rec *submissionRecord) *ports.SubmissionRecord {
	if rec == nil {
		return nil
	}
	return &ports.SubmissionRecord{
		DraftID:     rec.DraftID,
		RequestHash: rec.RequestHash,
		PostID:      rec.PostID,
		OwnerID:     rec.OwnerID,
		Photos:      append([]string(nil), rec.Photos...),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
