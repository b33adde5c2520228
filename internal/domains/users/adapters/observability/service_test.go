package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/petsetu/petsetu-web/internal/domains/users/application"
	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
	"github.com/petsetu/petsetu-web/internal/domains/users/ports"
)

type stubService struct {
	ports.Service
	loginErr error
}

func (s stubService) Login(context.Context, domain.Credentials) (*domain.Session, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &domain.Session{User: domain.User{ID: "u1"}}, nil
}

func TestService_LoginRecordsOutcome(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	svc := New(stubService{}, WithMeter(meter), WithTracer(tracer))
	_, err := svc.Login(context.Background(), domain.Credentials{})
	require.NoError(t, err)

	failing := New(stubService{loginErr: application.ErrAuthentication}, WithMeter(meter), WithTracer(tracer))
	_, err = failing.Login(context.Background(), domain.Credentials{})
	require.ErrorIs(t, err, application.ErrAuthentication)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "users.sessions.logins" {
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
	require.Len(t, spans, 2)
	require.Equal(t, "SessionService.Login", spans[0].Name())
}
