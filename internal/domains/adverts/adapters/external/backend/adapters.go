package backend

import (
	"context"
	"strings"

	backendclient "github.com/petsetu/petsetu-web/internal/clients/http/backend"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

var (
	_ ports.PostCreator   = (*PostCreator)(nil)
	_ ports.MediaUploader = (*MediaUploader)(nil)
	_ ports.BreedCatalog  = (*BreedCatalog)(nil)
)

// BreedListLimit is the page size requested from the breed endpoint.
const BreedListLimit = 200

// PostCreator implements the create-post port over the backend client.
type PostCreator struct {
	client *backendclient.Client
}

// NewPostCreator wires a backend client into a create-post adapter.
func NewPostCreator(client *backendclient.Client) *PostCreator {
	return &PostCreator{client: client}
}

// CreatePost sends the payload to the backend.
func (a *PostCreator) CreatePost(ctx context.Context, token string, payload domain.CreatePostPayload) (map[string]any, error) {
	if a == nil || a.client == nil {
		return nil, errNotConfigured
	}
	body, err := a.client.CreatePost(ctx, token, payload)
	if err != nil {
		return nil, MapError(err)
	}
	return body, nil
}

// MediaUploader implements the media upload port over the backend client.
type MediaUploader struct {
	client *backendclient.Client
}

// NewMediaUploader wires a backend client into a media upload adapter.
func NewMediaUploader(client *backendclient.Client) *MediaUploader {
	return &MediaUploader{client: client}
}

// Upload posts one file to the backend media endpoint.
func (a *MediaUploader) Upload(ctx context.Context, token string, file domain.MediaFile) (map[string]any, error) {
	if a == nil || a.client == nil {
		return nil, errNotConfigured
	}
	body, err := a.client.UploadMedia(ctx, token, backendclient.MediaFile{
		Name:        file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		return nil, MapError(err)
	}
	return body, nil
}

// BreedCatalog implements the breed lookup port over the backend client.
type BreedCatalog struct {
	client *backendclient.Client
}

// NewBreedCatalog wires a backend client into a breed lookup adapter.
func NewBreedCatalog(client *backendclient.Client) *BreedCatalog {
	return &BreedCatalog{client: client}
}

// ListBreeds returns the first page of breeds for the category, skipping unnamed entries.
func (a *BreedCatalog) ListBreeds(ctx context.Context, token, categoryID string) ([]domain.Breed, error) {
	if a == nil || a.client == nil {
		return nil, errNotConfigured
	}
	list, err := a.client.ListBreeds(ctx, token, categoryID, backendclient.ListBreedsParams{Limit: BreedListLimit, Page: 1})
	if err != nil {
		return nil, MapError(err)
	}
	breeds := make([]domain.Breed, 0, len(list.Results))
	for _, b := range list.Results {
		if strings.TrimSpace(b.ID) == "" || strings.TrimSpace(b.Name) == "" {
			continue
		}
		breeds = append(breeds, domain.Breed{ID: b.ID, Name: b.Name})
	}
	return breeds, nil
}
