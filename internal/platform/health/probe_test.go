package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProbe_Healthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, MetadataPath, r.URL.Path)
		require.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		require.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		_, _ = w.Write([]byte(strings.Repeat("x", 900)))
	}))
	defer srv.Close()

	report, err := NewProber(srv.URL + "/").Probe(context.Background())
	require.NoError(t, err)
	require.True(t, report.OK)
	require.Equal(t, srv.URL+MetadataPath, report.Target)
	require.Equal(t, http.StatusOK, report.Status)
	require.Equal(t, "OK", report.StatusText)
	require.Len(t, report.BodyPreview, PreviewLimit)
	require.Equal(t, http.StatusOK, report.HTTPStatus())
	require.False(t, report.CompletedAt.Before(report.StartedAt))
}

func TestProbe_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	}))
	defer srv.Close()

	report, err := NewProber(srv.URL).Probe(context.Background())
	require.NoError(t, err)
	require.False(t, report.OK)
	require.Equal(t, http.StatusServiceUnavailable, report.Status)
	require.Equal(t, "maintenance", report.BodyPreview)
	require.Equal(t, http.StatusBadGateway, report.HTTPStatus())
}

func TestProbe_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	report, err := NewProber(srv.URL, WithTimeout(20*time.Millisecond)).Probe(context.Background())
	require.NoError(t, err)
	require.False(t, report.OK)
	require.Equal(t, TimeoutText, report.StatusText)
	require.Equal(t, http.StatusGatewayTimeout, report.HTTPStatus())
}

func TestProbe_NotConfigured(t *testing.T) {
	_, err := NewProber(" ").Probe(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
}
