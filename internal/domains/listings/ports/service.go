package ports

import (
	"context"

	"github.com/petsetu/petsetu-web/internal/domains/listings/domain"
)

// Service exposes listing use cases to adapters.
type Service interface {
	Search(ctx context.Context, query domain.SearchQuery) (*domain.Page, error)
	GetPost(ctx context.Context, token, id string) (*domain.Post, error)
	Sitemap(ctx context.Context) ([]domain.SitemapEntry, error)
	Robots(ctx context.Context) domain.Robots
}
