package application

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

const (
	// DefaultSuggestDelay is the debounce window for address queries.
	DefaultSuggestDelay = 350 * time.Millisecond
	// MaxSuggestions caps the candidate list.
	MaxSuggestions = 8
	minQueryLength = 2
)

// AddressSuggester debounces address queries against a geocoder and writes the
// selected candidate back into the form. Every query takes a token; a lookup result
// is applied only while its token is still the latest one issued.
type AddressSuggester struct {
	geocoder ports.Geocoder
	form     *FormState
	delay    time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
	lookups sync.WaitGroup

	mu          sync.Mutex
	latest      uint64
	timer       *time.Timer
	waiting     chan struct{}
	query       string
	suggestions []domain.AddressSuggestion
	closed      bool
}

// SuggesterOption customizes an AddressSuggester.
type SuggesterOption func(*AddressSuggester)

// WithSuggestDelay overrides the debounce window.
func WithSuggestDelay(d time.Duration) SuggesterOption {
	return func(s *AddressSuggester) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithSuggestTimeout bounds each geocoder call.
func WithSuggestTimeout(d time.Duration) SuggesterOption {
	return func(s *AddressSuggester) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSuggesterLogger injects a logger for swallowed lookup failures.
func WithSuggesterLogger(logger *slog.Logger) SuggesterOption {
	return func(s *AddressSuggester) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewAddressSuggester wires a suggester writing into form.
func NewAddressSuggester(geocoder ports.Geocoder, form *FormState, opts ...SuggesterOption) *AddressSuggester {
	ctx, cancel := context.WithCancel(context.Background())
	s := &AddressSuggester{
		geocoder: geocoder,
		form:     form,
		delay:    DefaultSuggestDelay,
		timeout:  10 * time.Second,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		baseCtx:  ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Query records text as the latest query. Short queries clear the list at once;
// otherwise a lookup is scheduled after the debounce window, replacing any pending one.
// The returned channel closes when this query resolves or is superseded.
func (s *AddressSuggester) Query(text string) <-chan struct{} {
	_, done := s.issue(text)
	return done
}

func (s *AddressSuggester) issue(text string) (uint64, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest++
	token := s.latest
	s.query = text
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.settleLocked()

	done := make(chan struct{})
	trimmed := strings.TrimSpace(text)
	if s.closed || utf8.RuneCountInString(trimmed) < minQueryLength {
		s.suggestions = nil
		close(done)
		return token, done
	}
	s.waiting = done
	s.timer = time.AfterFunc(s.delay, func() { s.lookup(token, trimmed) })
	return token, done
}

// Suggest issues a debounced query and waits for it to resolve. Superseded is set
// when a newer query replaced this one first.
func (s *AddressSuggester) Suggest(ctx context.Context, text string) (SuggestionResult, error) {
	token, done := s.issue(text)
	select {
	case <-done:
	case <-ctx.Done():
		return SuggestionResult{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest != token {
		return SuggestionResult{Query: text, Superseded: true}, nil
	}
	return SuggestionResult{Query: s.query, Suggestions: cloneSuggestions(s.suggestions)}, nil
}

// SuggestionResult is the outcome of Suggest.
type SuggestionResult struct {
	Query       string
	Suggestions []domain.AddressSuggestion
	Superseded  bool
}

// Current returns the visible query text and suggestion list.
func (s *AddressSuggester) Current() (string, []domain.AddressSuggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query, cloneSuggestions(s.suggestions)
}

// Select writes the candidate at index into the form, sets the query text to its
// address and discards the suggestion list together with any in-flight lookup.
func (s *AddressSuggester) Select(index int) (domain.AddressSuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.suggestions) {
		return domain.AddressSuggestion{}, ErrSuggestionNotFound
	}
	chosen := s.suggestions[index]
	s.form.ApplyAddress(chosen)
	s.latest++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.settleLocked()
	s.query = chosen.Address
	s.suggestions = nil
	return chosen, nil
}

// Close cancels pending and in-flight lookups and waits for them to return.
func (s *AddressSuggester) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.latest++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.settleLocked()
	s.suggestions = nil
	s.mu.Unlock()

	s.cancel()
	s.lookups.Wait()
}

func (s *AddressSuggester) lookup(token uint64, text string) {
	s.mu.Lock()
	if s.closed || token != s.latest {
		s.mu.Unlock()
		return
	}
	s.lookups.Add(1)
	s.mu.Unlock()
	defer s.lookups.Done()

	ctx, cancel := context.WithTimeout(s.baseCtx, s.timeout)
	defer cancel()
	results, err := s.geocoder.FindAddressCandidates(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || token != s.latest {
		return
	}
	if err != nil {
		s.logger.Debug("address lookup failed", slog.String("query", text), slog.String("error", err.Error()))
		results = nil
	}
	if len(results) > MaxSuggestions {
		results = results[:MaxSuggestions]
	}
	s.suggestions = cloneSuggestions(results)
	s.timer = nil
	s.settleLocked()
}

func (s *AddressSuggester) settleLocked() {
	if s.waiting != nil {
		close(s.waiting)
		s.waiting = nil
	}
}

func cloneSuggestions(in []domain.AddressSuggestion) []domain.AddressSuggestion {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.AddressSuggestion, len(in))
	copy(out, in)
	return out
}
