package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/petsetu/petsetu-web/internal/domains/listings/domain"
	"github.com/petsetu/petsetu-web/internal/domains/listings/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog is an in-memory post catalog for development and tests.
type Catalog struct {
	mu    sync.RWMutex
	posts map[string]domain.Post
}

func NewCatalog() *Catalog {
	return &Catalog{posts: map[string]domain.Post{}}
}

// Save adds or replaces a post.
func (c *Catalog) Save(_ context.Context, post domain.Post) error {
	if strings.TrimSpace(post.ID) == "" {
		return errors.New("post id is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts[post.ID] = clonePost(post)
	return nil
}

// Search filters active posts newest first. Location matches city or state case-insensitively.
func (c *Catalog) Search(_ context.Context, filter ports.SearchFilter) (*domain.Page, error) {
	c.mu.RLock()
	matched := make([]domain.Post, 0, len(c.posts))
	for _, post := range c.posts {
		if c.matches(post, filter) {
			matched = append(matched, clonePost(post))
		}
	}
	c.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := filter.Limit
	if limit < 1 {
		limit = domain.DefaultPageSize
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	total := len(matched)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return &domain.Page{
		Results:      matched[start:end],
		Page:         page,
		Limit:        limit,
		TotalPages:   (total + limit - 1) / limit,
		TotalResults: total,
	}, nil
}

func (c *Catalog) matches(post domain.Post, filter ports.SearchFilter) bool {
	if !post.IsActive {
		return false
	}
	if filter.PostType != "" && filter.PostType != domain.PostTypeAll && post.PostType != filter.PostType {
		return false
	}
	if len(filter.CategoryIDs) > 0 && !slices.Contains(filter.CategoryIDs, post.CategoryID) {
		return false
	}
	if loc := strings.ToLower(filter.Location); loc != "" {
		if !strings.Contains(strings.ToLower(post.City), loc) && !strings.Contains(strings.ToLower(post.State), loc) {
			return false
		}
	}
	return true
}

// Get returns a post by id.
func (c *Catalog) Get(_ context.Context, _ string, id string) (*domain.Post, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	post, ok := c.posts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := clonePost(post)
	return &out, nil
}

func clonePost(p domain.Post) domain.Post {
	p.Photos = append([]string(nil), p.Photos...)
	if p.Pet != nil {
		pet := *p.Pet
		pet.Breeds = append([]string(nil), pet.Breeds...)
		p.Pet = &pet
	}
	if p.Owner != nil {
		owner := *p.Owner
		p.Owner = &owner
	}
	return p
}
