package petsetuserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	listinghttpmapper "github.com/petsetu/petsetu-web/internal/domains/listings/adapters/http/mapper"
	listingsapp "github.com/petsetu/petsetu-web/internal/domains/listings/application"
	listingsports "github.com/petsetu/petsetu-web/internal/domains/listings/ports"
	apierrors "github.com/petsetu/petsetu-web/internal/shared/errors"
)

// ListingAPI serves marketplace search and post detail.
type ListingAPI struct {
	service   listingsports.Service
	imageBase string
}

// NewListingAPI creates a ListingAPI. Photo paths are resolved against imageBase.
func NewListingAPI(service listingsports.Service, imageBase string) ListingAPI {
	return ListingAPI{service: service, imageBase: imageBase}
}

// Get /api/posts
// Searches active posts newest first
func (api *ListingAPI) SearchPosts(c *gin.Context) {
	var query listinghttpmapper.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	page, err := api.service.Search(c.Request.Context(), listinghttpmapper.ToSearchQuery(query))
	if err != nil {
		respondListingServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listinghttpmapper.FromDomainPage(page, api.imageBase))
}

// Get /api/posts/:postId
// Loads one post with the caller's token
func (api *ListingAPI) GetPost(c *gin.Context) {
	post, err := api.service.GetPost(c.Request.Context(), currentToken(c), c.Param("postId"))
	if err != nil {
		respondListingServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listinghttpmapper.FromDomainPost(post, api.imageBase))
}

func respondListingServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, listingsapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, listingsports.ErrUnauthorized):
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
	case errors.Is(err, listingsports.ErrNotFound):
		respondProblem(c, apierrors.NewNotFoundProblem("post", c.Param("postId")))
	case errors.Is(err, listingsapp.ErrConfiguration):
		respondProblem(c, apierrors.ErrNotConfigured.WithDetail(err.Error()))
	case errors.Is(err, listingsports.ErrUpstreamTimeout):
		respondProblem(c, apierrors.ErrUpstreamTimeout.WithDetail(err.Error()))
	case errors.Is(err, listingsports.ErrUpstream):
		respondProblem(c, apierrors.ErrUpstream.WithDetail(err.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
