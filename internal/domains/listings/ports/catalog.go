package ports

import (
	"context"
	"errors"

	"github.com/petsetu/petsetu-web/internal/domains/listings/domain"
)

var (
	ErrNotFound        = errors.New("post not found")
	ErrUnauthorized    = errors.New("login required to view this post")
	ErrUpstream        = errors.New("listings backend request failed")
	ErrUpstreamTimeout = errors.New("listings backend request timed out")
)

// SearchFilter is the resolved filter handed to the catalog.
type SearchFilter struct {
	Page        int
	Limit       int
	PostType    string
	Location    string
	CategoryIDs []string
}

// Catalog reads marketplace posts.
type Catalog interface {
	Search(ctx context.Context, filter SearchFilter) (*domain.Page, error)
	Get(ctx context.Context, token, id string) (*domain.Post, error)
}
