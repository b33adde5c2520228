package types

import (
	"time"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
)

// Phase is the lifecycle position of a draft workspace.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseNavigated  Phase = "navigated"
)

// DraftRef addresses a draft on behalf of a signed-in author.
type DraftRef struct {
	DraftID string
	Author  domain.Author
}

// DraftView is a point-in-time snapshot of a draft workspace.
type DraftView struct {
	ID          string
	Phase       Phase
	Step        domain.Step
	Values      domain.Values
	Errors      domain.FieldErrors
	Media       []domain.UploadedMedia
	Query       string
	Suggestions []domain.AddressSuggestion
	Notices     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SuggestionView reports the outcome of an address lookup.
// Superseded is set when a newer query replaced this one before it resolved.
type SuggestionView struct {
	Query       string
	Suggestions []domain.AddressSuggestion
	Superseded  bool
}

// UploadFailure describes one file of a batch that did not produce a usable identifier.
type UploadFailure struct {
	Index    int
	FileName string
	Reason   string
}

// UploadReport summarizes a media batch.
type UploadReport struct {
	Added    []domain.UploadedMedia
	Failures []UploadFailure
	Draft    *DraftView
}

// SubmissionResult carries the navigation target after a successful submit.
type SubmissionResult struct {
	PostID   string
	Location string
	Replayed bool
}

// CreatePostCommand is the unit of work handed to the post-creation orchestrator.
type CreatePostCommand struct {
	DraftID     string
	Token       string
	RequestHash string
	Payload     domain.CreatePostPayload
}
