package application

import (
	"context"
	"io"
	"log/slog"
	"strings"

	advertdomain "github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/listings/domain"
	"github.com/petsetu/petsetu-web/internal/domains/listings/ports"
)

const (
	// SitemapPostLimit bounds the posts listed in the sitemap.
	SitemapPostLimit = 200
	// DefaultSiteURL is the public origin used in absolute links.
	DefaultSiteURL = "https://petsetu.com"
)

// Service orchestrates listing search, post detail and crawler documents.
type Service struct {
	catalog ports.Catalog
	siteURL string
	logger  *slog.Logger
}

// Option customizes the Service.
type Option func(*Service)

// WithSiteURL sets the public origin used by the sitemap and robots.
func WithSiteURL(siteURL string) Option {
	return func(s *Service) {
		if strings.TrimSpace(siteURL) != "" {
			s.siteURL = strings.TrimSuffix(strings.TrimSpace(siteURL), "/")
		}
	}
}

// WithLogger injects a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the listings service. A nil catalog makes reads report ErrConfiguration.
func NewService(catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		siteURL: DefaultSiteURL,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Search resolves the category filter and queries the catalog. The "all" category
// expands to every distinct category id.
func (s *Service) Search(ctx context.Context, query domain.SearchQuery) (*domain.Page, error) {
	if err := query.Normalize(); err != nil {
		return nil, mapError(err)
	}
	ids, err := categoryIDs(query.Category)
	if err != nil {
		return nil, mapError(err)
	}
	if s.catalog == nil {
		return nil, ErrConfiguration
	}
	return s.catalog.Search(ctx, ports.SearchFilter{
		Page:        query.Page,
		Limit:       query.Limit,
		PostType:    query.PostType,
		Location:    query.Location,
		CategoryIDs: ids,
	})
}

func categoryIDs(category string) ([]string, error) {
	if category == domain.CategoryAll {
		return advertdomain.AllCategoryIDs(), nil
	}
	id, ok := advertdomain.CategoryID(advertdomain.CategoryKey(category))
	if !ok {
		return nil, domain.ErrInvalidCategory
	}
	return []string{id}, nil
}

// GetPost loads one post with the caller's token.
func (s *Service) GetPost(ctx context.Context, token, id string) (*domain.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mapError(domain.ErrEmptyPostID)
	}
	if s.catalog == nil {
		return nil, ErrConfiguration
	}
	return s.catalog.Get(ctx, token, id)
}

// Sitemap lists the static routes followed by up to SitemapPostLimit listed posts.
// A failing catalog yields the static routes only.
func (s *Service) Sitemap(ctx context.Context) ([]domain.SitemapEntry, error) {
	entries := domain.StaticEntries(s.siteURL)
	if s.catalog == nil {
		return entries, nil
	}
	page, err := s.catalog.Search(ctx, ports.SearchFilter{
		Page:        1,
		Limit:       SitemapPostLimit,
		PostType:    domain.PostTypeAll,
		CategoryIDs: advertdomain.AllCategoryIDs(),
	})
	if err != nil {
		s.logger.Warn("sitemap posts unavailable", slog.String("error", err.Error()))
		return entries, nil
	}
	for _, post := range page.Results {
		if post.Listed() {
			entries = append(entries, domain.PostEntry(s.siteURL, post))
		}
	}
	return entries, nil
}

// Robots returns the crawler policy.
func (s *Service) Robots(context.Context) domain.Robots {
	return domain.NewRobots(s.siteURL)
}

var _ ports.Service = (*Service)(nil)
