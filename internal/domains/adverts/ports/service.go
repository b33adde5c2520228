package ports

import (
	"context"
	"time"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
)

// Service defines the advert draft use cases exposed to adapters (inbound/driving port).
type Service interface {
	CreateDraft(ctx context.Context, author domain.Author) (*adverttypes.DraftView, error)
	GetDraft(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.DraftView, error)
	PatchDraft(ctx context.Context, ref adverttypes.DraftRef, patch []byte) (*adverttypes.DraftView, error)
	Advance(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.DraftView, error)
	Retreat(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.DraftView, error)
	ListBreeds(ctx context.Context, ref adverttypes.DraftRef) ([]domain.Breed, error)
	SuggestAddress(ctx context.Context, ref adverttypes.DraftRef, query string) (*adverttypes.SuggestionView, error)
	SelectAddress(ctx context.Context, ref adverttypes.DraftRef, index int) (*adverttypes.DraftView, error)
	UploadMedia(ctx context.Context, ref adverttypes.DraftRef, files []domain.MediaFile) (*adverttypes.UploadReport, error)
	RemoveMedia(ctx context.Context, ref adverttypes.DraftRef, index int) (*adverttypes.DraftView, error)
	Submit(ctx context.Context, ref adverttypes.DraftRef) (*adverttypes.SubmissionResult, error)
	Discard(ctx context.Context, ref adverttypes.DraftRef) error
	Preview(ctx context.Context, handle string) (*Preview, error)
	SweepIdle(ctx context.Context, idleSince time.Time) (int, error)
}
