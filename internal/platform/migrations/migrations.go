package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema of the submission and session stores.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&submissionRecord{},
		&sessionRecord{},
	)
}

// Submission schema mirrors the adverts Postgres adapter.
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

// Session schema mirrors the users session store. Profile and tokens are JSON text.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:1024"`
	UserID    string     `gorm:"column:user_id;size:64;index"`
	User      string     `gorm:"column:user_profile;type:text"`
	Tokens    string     `gorm:"column:tokens;type:text"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
