package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	backendclient "github.com/petsetu/petsetu-web/internal/clients/http/backend"
	"github.com/petsetu/petsetu-web/internal/domains/listings/domain"
	"github.com/petsetu/petsetu-web/internal/domains/listings/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog reads posts from the backend REST API.
type Catalog struct {
	client *backendclient.Client
}

func NewCatalog(client *backendclient.Client) *Catalog {
	return &Catalog{client: client}
}

// Search asks the backend for active posts newest first.
func (c *Catalog) Search(ctx context.Context, filter ports.SearchFilter) (*domain.Page, error) {
	resp, err := c.client.SearchPosts(ctx,
		backendclient.SearchPostsParams{SortBy: domain.SortNewestFirst, Page: filter.Page, Limit: filter.Limit},
		backendclient.SearchPostsBody{
			IsActive:    true,
			PostType:    filter.PostType,
			Location:    filter.Location,
			PetCategory: append([]string(nil), filter.CategoryIDs...),
		})
	if err != nil {
		return nil, mapError("search posts", err)
	}
	page := &domain.Page{
		Results:      make([]domain.Post, 0, len(resp.Results)),
		Page:         resp.Page,
		Limit:        resp.Limit,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}
	for _, p := range resp.Results {
		page.Results = append(page.Results, toPost(p))
	}
	return page, nil
}

// Get loads one post, forwarding the caller's bearer token.
func (c *Catalog) Get(ctx context.Context, token, id string) (*domain.Post, error) {
	resp, err := c.client.GetPost(ctx, token, id)
	if err != nil {
		return nil, mapError("get post", err)
	}
	post := toPost(*resp)
	return &post, nil
}

func toPost(p backendclient.Post) domain.Post {
	post := domain.Post{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		PostType:    p.PostType,
		Photos:      append([]string(nil), p.Photos...),
		Price:       p.Price,
		Currency:    p.Currency,
		Address1:    p.Address1,
		Address2:    p.Address2,
		City:        p.City,
		State:       p.State,
		Country:     p.Country,
		Pincode:     pincode(p.Pincode),
		Phone:       p.Phone,
		IsFeatured:  p.IsFeatured,
		IsActive:    p.IsActive,
		IsDeleted:   p.IsDeleted,
	}
	if created, err := time.Parse(time.RFC3339Nano, p.CreatedAt); err == nil {
		post.CreatedAt = created.UTC()
	}
	if p.PetCategoryDetails != nil {
		post.CategoryID = p.PetCategoryDetails.PetCategoryID
		post.CategoryName = p.PetCategoryDetails.PetCategory
	}
	if d := p.PetDetails; d != nil {
		pet := &domain.Pet{
			Name:                  d.Name,
			Sex:                   d.Sex,
			AgeMonths:             d.Age,
			Weight:                d.Weight,
			IsVaccinationDone:     d.IsVaccinationDone,
			KnowEssentialCommands: d.KnowEssentialCommands,
		}
		for _, b := range d.BreedDetails {
			if b.Name != "" {
				pet.Breeds = append(pet.Breeds, b.Name)
			}
		}
		post.Pet = pet
	}
	if o := p.OwnerDetails; o != nil {
		post.Owner = &domain.Owner{ID: o.ID, Name: o.Name, Email: o.Email, Phone: o.Phone}
	}
	if p.Loc != nil {
		coords := p.Loc.Coordinates
		post.Coordinates = &coords
	}
	return post
}

// pincode accepts the backend's string or numeric form.
func pincode(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func mapError(op string, err error) error {
	if errors.Is(err, backendclient.ErrTimeout) {
		return fmt.Errorf("%w: %w", ports.ErrUpstreamTimeout, err)
	}
	var status *backendclient.StatusError
	if errors.As(err, &status) {
		detail := strings.TrimSpace(status.Message)
		if detail == "" {
			detail = strconv.Itoa(status.StatusCode) + " " + http.StatusText(status.StatusCode)
		}
		switch status.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ports.ErrUnauthorized, detail)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ports.ErrNotFound, detail)
		}
	}
	return fmt.Errorf("%w: %s failed: %w", ports.ErrUpstream, op, err)
}
