package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/petsetu/petsetu-web/internal/domains/leads/application"
	"github.com/petsetu/petsetu-web/internal/domains/leads/domain"
)

type stubService struct {
	err error
}

func (s stubService) SubmitRequirement(context.Context, string, domain.Requirement) (*domain.Receipt, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Receipt{ID: "lead-1", LeadType: domain.TypeRequirement}, nil
}

func (s stubService) SubmitEnquiry(context.Context, string, domain.Enquiry) (*domain.Receipt, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Receipt{ID: "lead-2", LeadType: domain.TypeEnquiry}, nil
}

func TestService_CountsSubmittedLeadsByType(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	svc := New(stubService{}, WithMeter(meter), WithTracer(tracer))
	_, err := svc.SubmitRequirement(context.Background(), "", domain.Requirement{})
	require.NoError(t, err)
	_, err = svc.SubmitEnquiry(context.Background(), "", domain.Enquiry{})
	require.NoError(t, err)

	failing := New(stubService{err: application.ErrInvalidInput}, WithMeter(meter), WithTracer(tracer))
	_, err = failing.SubmitEnquiry(context.Background(), "", domain.Enquiry{})
	require.ErrorIs(t, err, application.ErrInvalidInput)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "leads.submitted" {
				continue
			}
			sum := m.Data.(metricdata.Sum[int64])
			require.Len(t, sum.DataPoints, 2)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	require.EqualValues(t, 2, total)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	require.Equal(t, "LeadsService.SubmitRequirement", spans[0].Name())
	require.Equal(t, "LeadsService.SubmitEnquiry", spans[1].Name())
	require.Equal(t, codes.Error, spans[2].Status().Code)
}
