package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	advertmemory "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/memory"
	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func imageFile(name string) domain.MediaFile {
	return domain.MediaFile{Name: name, ContentType: "image/png", Data: pngHeader}
}

const validPatch = `{
	"name": "Bruno",
	"age": 14,
	"petBreed": "breed-1",
	"title": "Friendly labrador",
	"description": "Vaccinated and house trained",
	"phone": "9876543210",
	"address1": "12 Park Street",
	"city": "Kolkata",
	"state": "WB",
	"pincode": "700016"
}`

func fillToLastStep(t *testing.T, form *FormState) {
	t.Helper()
	require.NoError(t, form.Patch([]byte(validPatch)))
	for form.Step() < domain.LastStep {
		_, errs := form.Advance()
		require.True(t, errs.Empty(), "unexpected errors: %v", errs)
	}
}

var author = domain.Author{UserID: "user-1", Token: "token-1", SellerType: "individual"}

// fakeGeocoder answers from a table and can block a query until released.
type fakeGeocoder struct {
	mu      sync.Mutex
	results map[string][]domain.AddressSuggestion
	err     error
	block   map[string]chan struct{}
	started chan string
	calls   []string
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		results: map[string][]domain.AddressSuggestion{},
		block:   map[string]chan struct{}{},
		started: make(chan string, 16),
	}
}

func (g *fakeGeocoder) FindAddressCandidates(ctx context.Context, query string) ([]domain.AddressSuggestion, error) {
	g.mu.Lock()
	g.calls = append(g.calls, query)
	gate := g.block[query]
	results := g.results[query]
	err := g.err
	g.mu.Unlock()

	g.started <- query
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return results, err
}

func (g *fakeGeocoder) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

type uploadBehavior struct {
	delay time.Duration
	body  map[string]any
	err   error
	gate  chan struct{}
}

// fakeUploader answers per file name.
type fakeUploader struct {
	mu        sync.Mutex
	behaviors map[string]uploadBehavior
	tokens    []string
	started   chan string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{behaviors: map[string]uploadBehavior{}, started: make(chan string, 16)}
}

func (u *fakeUploader) on(name string, b uploadBehavior) *fakeUploader {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.behaviors[name] = b
	return u
}

func (u *fakeUploader) Upload(ctx context.Context, token string, file domain.MediaFile) (map[string]any, error) {
	u.mu.Lock()
	b, ok := u.behaviors[file.Name]
	u.tokens = append(u.tokens, token)
	u.mu.Unlock()
	u.started <- file.Name
	if !ok {
		return map[string]any{"fileName": file.Name}, nil
	}
	if b.gate != nil {
		<-b.gate
	}
	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return b.body, b.err
}

// countingPreviews records every Revoke call per handle.
type countingPreviews struct {
	*advertmemory.PreviewStore
	mu      sync.Mutex
	revokes map[string]int
}

func newCountingPreviews() *countingPreviews {
	return &countingPreviews{PreviewStore: advertmemory.NewPreviewStore(), revokes: map[string]int{}}
}

func (p *countingPreviews) Revoke(ctx context.Context, handle string) error {
	p.mu.Lock()
	p.revokes[handle]++
	p.mu.Unlock()
	return p.PreviewStore.Revoke(ctx, handle)
}

func (p *countingPreviews) revokeCount(handle string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revokes[handle]
}

func (p *countingPreviews) maxRevokes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	max := 0
	for _, n := range p.revokes {
		if n > max {
			max = n
		}
	}
	return max
}

// fakeWorkflows records commands and replies with a canned body.
type fakeWorkflows struct {
	mu       sync.Mutex
	commands []adverttypes.CreatePostCommand
	body     map[string]any
	err      error
}

func (w *fakeWorkflows) CreatePost(_ context.Context, cmd adverttypes.CreatePostCommand) (map[string]any, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.commands = append(w.commands, cmd)
	return w.body, w.err
}

func (w *fakeWorkflows) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.commands)
}

var errBackendDown = errors.New("backend down")

var _ ports.WorkflowOrchestrator = (*fakeWorkflows)(nil)

func newTestWorkspace(uploader ports.MediaUploader, previews ports.PreviewStore) *Workspace {
	form := NewFormState(nil)
	return newWorkspace(
		form,
		NewAddressSuggester(newFakeGeocoder(), form, WithSuggestDelay(0)),
		NewMediaOrchestrator(uploader, previews),
		time.Now(),
	)
}
