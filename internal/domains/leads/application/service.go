package application

import (
	"context"
	"io"
	"log/slog"

	"github.com/petsetu/petsetu-web/internal/domains/leads/domain"
	"github.com/petsetu/petsetu-web/internal/domains/leads/ports"
)

// Service validates leads and forwards them to the gateway.
type Service struct {
	gateway   ports.Gateway
	validator *domain.Validator
	sanitizer *domain.Sanitizer
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the leads service. A nil gateway makes submissions report ErrConfiguration.
func NewService(gateway ports.Gateway, opts ...Option) *Service {
	s := &Service{
		gateway:   gateway,
		validator: domain.NewValidator(),
		sanitizer: domain.NewSanitizer(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SubmitRequirement validates a requirement and forwards it.
func (s *Service) SubmitRequirement(ctx context.Context, token string, input domain.Requirement) (*domain.Receipt, error) {
	input.Normalize()
	if fields := s.validator.Check(input); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	lead, err := domain.NewRequirementLead(input, s.sanitizer)
	if err != nil {
		return nil, mapError(err)
	}
	return s.submit(ctx, token, lead)
}

// SubmitEnquiry validates a contact enquiry and forwards it.
func (s *Service) SubmitEnquiry(ctx context.Context, token string, input domain.Enquiry) (*domain.Receipt, error) {
	input.Normalize()
	if fields := s.validator.Check(input); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return s.submit(ctx, token, domain.NewEnquiryLead(input, s.sanitizer))
}

func (s *Service) submit(ctx context.Context, token string, lead domain.Lead) (*domain.Receipt, error) {
	if s.gateway == nil {
		return nil, ErrConfiguration
	}
	receipt, err := s.gateway.Submit(ctx, token, lead)
	if err != nil {
		return nil, mapError(err)
	}
	if receipt == nil {
		receipt = &domain.Receipt{}
	}
	if receipt.LeadType == "" {
		receipt.LeadType = lead.LeadType
	}
	s.logger.Debug("lead forwarded", slog.String("lead_type", lead.LeadType), slog.String("lead_id", receipt.ID))
	return receipt, nil
}

var _ ports.Service = (*Service)(nil)
