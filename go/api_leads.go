package petsetuserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	leadhttpmapper "github.com/petsetu/petsetu-web/internal/domains/leads/adapters/http/mapper"
	leadsapp "github.com/petsetu/petsetu-web/internal/domains/leads/application"
	leadsports "github.com/petsetu/petsetu-web/internal/domains/leads/ports"
	apierrors "github.com/petsetu/petsetu-web/internal/shared/errors"
)

// LeadAPI captures buyer requirements and contact enquiries.
type LeadAPI struct {
	service leadsports.Service
}

func NewLeadAPI(service leadsports.Service) LeadAPI {
	return LeadAPI{service: service}
}

// Post /api/leads
// Forwards a "looking for a pet" requirement
func (api *LeadAPI) SubmitRequirement(c *gin.Context) {
	var payload leadhttpmapper.Requirement
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	receipt, err := api.service.SubmitRequirement(c.Request.Context(), currentToken(c), leadhttpmapper.ToRequirement(payload))
	if err != nil {
		respondLeadServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, leadhttpmapper.FromReceipt(receipt))
}

// Post /api/contact
// Forwards a contact-us enquiry
func (api *LeadAPI) SubmitEnquiry(c *gin.Context) {
	var payload leadhttpmapper.Contact
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	receipt, err := api.service.SubmitEnquiry(c.Request.Context(), currentToken(c), leadhttpmapper.ToEnquiry(payload))
	if err != nil {
		respondLeadServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, leadhttpmapper.FromReceipt(receipt))
}

func respondLeadServiceError(c *gin.Context, err error) {
	var verr *leadsapp.ValidationError
	switch {
	case errors.As(err, &verr):
		respondProblem(c, apierrors.NewValidationProblem(verr.Fields))
	case errors.Is(err, leadsapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, leadsapp.ErrConfiguration):
		respondProblem(c, apierrors.ErrNotConfigured.WithDetail(err.Error()))
	case errors.Is(err, leadsports.ErrUpstreamTimeout):
		respondProblem(c, apierrors.ErrUpstreamTimeout.WithDetail(err.Error()))
	case errors.Is(err, leadsports.ErrUpstream):
		respondProblem(c, apierrors.ErrUpstream.WithDetail(err.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
