package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, logLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, logLevel("warning"))
	require.Equal(t, slog.LevelError, logLevel("error"))
	require.Equal(t, slog.LevelInfo, logLevel(""))
}

func TestNilInstrumentsFallBackToGlobals(t *testing.T) {
	var instruments *Instruments
	require.NotNil(t, instruments.Tracer("x"))
	require.NotNil(t, instruments.Meter("x"))
	DiscardLogger().Info("dropped")
}

func TestTraceHandler_StampsSpanContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(traceHandler{Handler: slog.NewJSONHandler(&buf, nil)})
	tracer := sdktrace.NewTracerProvider().Tracer("test")

	ctx, span := tracer.Start(context.Background(), "op")
	logger.InfoContext(ctx, "inside span")
	span.End()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
	require.Equal(t, span.SpanContext().SpanID().String(), record["span_id"])

	buf.Reset()
	logger.Info("outside span")
	record = map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.NotContains(t, record, "trace_id")
}

func TestSampler_RatioOnlyInProduction(t *testing.T) {
	require.Equal(t, sdktrace.AlwaysSample().Description(), newSampler("local").Description())

	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")
	require.Contains(t, newSampler("production").Description(), "TraceIDRatioBased{0.25}")
}
