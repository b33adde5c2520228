package petsetuserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	listinghttpmapper "github.com/petsetu/petsetu-web/internal/domains/listings/adapters/http/mapper"
	listingsports "github.com/petsetu/petsetu-web/internal/domains/listings/ports"
	apierrors "github.com/petsetu/petsetu-web/internal/shared/errors"
)

// SiteAPI serves crawler documents.
type SiteAPI struct {
	service listingsports.Service
}

func NewSiteAPI(service listingsports.Service) SiteAPI {
	return SiteAPI{service: service}
}

// Get /sitemap.xml
// Lists static pages and active posts
func (api *SiteAPI) Sitemap(c *gin.Context) {
	entries, err := api.service.Sitemap(c.Request.Context())
	if err != nil {
		respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
		return
	}
	body, err := listinghttpmapper.MarshalSitemap(entries)
	if err != nil {
		respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// Get /robots.txt
// Allows every crawler and points at the sitemap
func (api *SiteAPI) Robots(c *gin.Context) {
	c.String(http.StatusOK, api.service.Robots(c.Request.Context()).String())
}
