// Package health probes the backend the way the scheduled uptime check does.
package health

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MetadataPath is the backend document fetched by the probe.
	MetadataPath = "/data/app-initial-metadata"
	// UserAgent identifies probe traffic in backend logs.
	UserAgent = "petsetu-cron/1.0"
	// DefaultTimeout bounds one probe.
	DefaultTimeout = 10 * time.Second
	// PreviewLimit caps the body excerpt in a report.
	PreviewLimit = 500
)

// TimeoutText is the status text reported for transport failures.
const TimeoutText = "Request timed out"

// ErrNotConfigured is returned when no backend base URL is set.
var ErrNotConfigured = errors.New("API_BASE is not configured")

// Report is the outcome of one probe.
type Report struct {
	OK          bool      `json:"ok"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
	Target      string    `json:"target"`
	Status      int       `json:"status"`
	StatusText  string    `json:"statusText"`
	BodyPreview string    `json:"bodyPreview,omitempty"`
}

// HTTPStatus is the status the probe endpoint answers with: 200 when the
// backend is healthy, 502 for a non-2xx answer, 504 when no answer arrived.
func (r Report) HTTPStatus() int {
	switch {
	case r.OK:
		return http.StatusOK
	case r.Status == http.StatusGatewayTimeout && r.StatusText == TimeoutText:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// Prober checks backend reachability.
type Prober struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Prober)

// WithHTTPClient overrides the transport.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Prober) {
		if c != nil {
			p.http = c
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Prober) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProber builds a prober for the backend at baseURL. An empty base is
// accepted; Probe then reports ErrNotConfigured.
func NewProber(baseURL string, opts ...Option) *Prober {
	p := &Prober{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Probe fetches the metadata document once. Upstream failures are described by
// the report, not by the error.
func (p *Prober) Probe(ctx context.Context) (Report, error) {
	started := p.now().UTC()
	if p.baseURL == "" {
		return Report{}, ErrNotConfigured
	}
	report := Report{StartedAt: started, Target: p.baseURL + MetadataPath}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, report.Target, nil)
	if err != nil {
		return Report{}, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := p.http.Do(req)
	if err != nil {
		return p.timedOut(report), nil
	}
	defer resp.Body.Close()

	// Read at most a few bytes beyond the preview; the rest is discarded.
	body, err := io.ReadAll(io.LimitReader(resp.Body, PreviewLimit*4))
	if err != nil {
		return p.timedOut(report), nil
	}
	report.CompletedAt = p.now().UTC()
	report.Status = resp.StatusCode
	report.StatusText = http.StatusText(resp.StatusCode)
	report.OK = resp.StatusCode >= 200 && resp.StatusCode <= 299
	report.BodyPreview = preview(body)
	return report, nil
}

func (p *Prober) timedOut(report Report) Report {
	report.CompletedAt = p.now().UTC()
	report.Status = http.StatusGatewayTimeout
	report.StatusText = TimeoutText
	return report
}

func preview(body []byte) string {
	text := string(body)
	if utf8.RuneCountInString(text) <= PreviewLimit {
		return text
	}
	runes := []rune(text)
	return string(runes[:PreviewLimit])
}
