package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	advertdomain "github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/listings/adapters/memory"
	"github.com/petsetu/petsetu-web/internal/domains/listings/domain"
	"github.com/petsetu/petsetu-web/internal/domains/listings/ports"
)

type recordingCatalog struct {
	filters []ports.SearchFilter
	page    *domain.Page
	err     error
}

func (r *recordingCatalog) Search(_ context.Context, filter ports.SearchFilter) (*domain.Page, error) {
	r.filters = append(r.filters, filter)
	if r.err != nil {
		return nil, r.err
	}
	return r.page, nil
}

func (r *recordingCatalog) Get(context.Context, string, string) (*domain.Post, error) {
	return nil, ports.ErrNotFound
}

func TestService_SearchResolvesCategories(t *testing.T) {
	catalog := &recordingCatalog{page: &domain.Page{}}
	svc := NewService(catalog)

	_, err := svc.Search(context.Background(), domain.SearchQuery{Category: "rabbit", Location: "Pune", PostType: "adopt", Page: 2})
	require.NoError(t, err)
	bunny, _ := advertdomain.CategoryID(advertdomain.CategoryBunny)
	require.Equal(t, ports.SearchFilter{Page: 2, Limit: 20, PostType: "adopt", Location: "Pune", CategoryIDs: []string{bunny}}, catalog.filters[0])

	_, err = svc.Search(context.Background(), domain.SearchQuery{})
	require.NoError(t, err)
	require.Equal(t, advertdomain.AllCategoryIDs(), catalog.filters[1].CategoryIDs)
	require.Len(t, catalog.filters[1].CategoryIDs, 3)

	_, err = svc.Search(context.Background(), domain.SearchQuery{Category: "parrot"})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Search(context.Background(), domain.SearchQuery{PostType: "rent"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Len(t, catalog.filters, 2)
}

func TestService_SearchWithMemoryCatalog(t *testing.T) {
	catalog := memory.NewCatalog()
	dog, _ := advertdomain.CategoryID(advertdomain.CategoryDog)
	cat, _ := advertdomain.CategoryID(advertdomain.CategoryCat)
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()
	require.NoError(t, catalog.Save(ctx, domain.Post{ID: "old", PostType: "sell", CategoryID: dog, City: "Pune", IsActive: true, CreatedAt: base}))
	require.NoError(t, catalog.Save(ctx, domain.Post{ID: "new", PostType: "sell", CategoryID: dog, City: "Mumbai", IsActive: true, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, catalog.Save(ctx, domain.Post{ID: "cat", PostType: "adopt", CategoryID: cat, City: "Pune", IsActive: true, CreatedAt: base}))
	require.NoError(t, catalog.Save(ctx, domain.Post{ID: "hidden", PostType: "sell", CategoryID: dog, IsActive: false}))

	svc := NewService(catalog)
	page, err := svc.Search(ctx, domain.SearchQuery{Category: "dog", PostType: "sell"})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalResults)
	require.Equal(t, "new", page.Results[0].ID)

	page, err = svc.Search(ctx, domain.SearchQuery{Location: "pune"})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalResults)

	page, err = svc.Search(ctx, domain.SearchQuery{Limit: 1, Page: 3})
	require.NoError(t, err)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, "cat", page.Results[0].ID)
}

func TestService_GetPost(t *testing.T) {
	svc := NewService(&recordingCatalog{})
	_, err := svc.GetPost(context.Background(), "", " ")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.GetPost(context.Background(), "tok", "p1")
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = NewService(nil).GetPost(context.Background(), "", "p1")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestService_Sitemap(t *testing.T) {
	created := time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)
	catalog := &recordingCatalog{page: &domain.Page{Results: []domain.Post{
		{ID: "p1", IsActive: true, CreatedAt: created},
		{ID: "p2", IsActive: true, IsDeleted: true},
		{ID: "p3", IsActive: false},
		{ID: "", IsActive: true},
	}}}
	svc := NewService(catalog, WithSiteURL("https://staging.petsetu.com/"))

	entries, err := svc.Sitemap(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 5)
	require.Equal(t, "https://staging.petsetu.com/", entries[0].URL)
	require.Equal(t, "https://staging.petsetu.com/post/p1", entries[4].URL)
	require.Equal(t, ports.SearchFilter{Page: 1, Limit: 200, PostType: "all", CategoryIDs: advertdomain.AllCategoryIDs()}, catalog.filters[0])

	catalog.err = ports.ErrUpstream
	entries, err = svc.Sitemap(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 4)

	require.Equal(t, "https://staging.petsetu.com/sitemap.xml", svc.Robots(context.Background()).Sitemap)
}
