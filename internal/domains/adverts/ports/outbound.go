package ports

import (
	"context"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
)

// Geocoder resolves free-text addresses into candidates in provider relevance order.
type Geocoder interface {
	FindAddressCandidates(ctx context.Context, query string) ([]domain.AddressSuggestion, error)
}

// MediaUploader stores one file remotely and returns the decoded response body.
type MediaUploader interface {
	Upload(ctx context.Context, token string, file domain.MediaFile) (map[string]any, error)
}

// PostCreator calls the backend create-post endpoint and returns the decoded response body.
type PostCreator interface {
	CreatePost(ctx context.Context, token string, payload domain.CreatePostPayload) (map[string]any, error)
}

// BreedCatalog lists breeds for a backend category id.
type BreedCatalog interface {
	ListBreeds(ctx context.Context, token, categoryID string) ([]domain.Breed, error)
}

// Preview is the locally held copy of a selected file.
type Preview struct {
	Handle      string
	FileName    string
	ContentType string
	Data        []byte
}

// PreviewStore issues and revokes local preview handles.
type PreviewStore interface {
	Create(ctx context.Context, file domain.MediaFile) (string, error)
	Get(ctx context.Context, handle string) (*Preview, error)
	// Revoke releases the handle; revoking an unknown handle returns ErrPreviewNotFound.
	Revoke(ctx context.Context, handle string) error
}
