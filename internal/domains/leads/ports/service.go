package ports

import (
	"context"

	"github.com/petsetu/petsetu-web/internal/domains/leads/domain"
)

// Service exposes lead capture to adapters.
type Service interface {
	SubmitRequirement(ctx context.Context, token string, input domain.Requirement) (*domain.Receipt, error)
	SubmitEnquiry(ctx context.Context, token string, input domain.Enquiry) (*domain.Receipt, error)
}
