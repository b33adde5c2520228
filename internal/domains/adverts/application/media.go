package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/h2non/filetype"
	"golang.org/x/sync/errgroup"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

const (
	// DefaultUploadConcurrency bounds parallel uploads within one batch.
	DefaultUploadConcurrency = 3
	// DefaultUploadTimeout bounds a single file upload.
	DefaultUploadTimeout = time.Minute
)

var (
	errNotAnImage    = errors.New("file is not a supported image")
	errNoIdentifier  = fmt.Errorf("%w: upload response has no usable file identifier", ports.ErrResponseShape)
	errMediaReleased = errors.New("media orchestrator closed")
)

// MediaOrchestrator turns selected files into uploaded media while keeping a local
// preview for each one. It exclusively owns the preview handles it creates: each is
// revoked exactly once, on removal, on a failed upload, or on Close.
type MediaOrchestrator struct {
	uploader    ports.MediaUploader
	previews    ports.PreviewStore
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger

	mu     sync.Mutex
	items  []domain.UploadedMedia
	held   map[string]struct{}
	closed bool
}

// MediaOption customizes a MediaOrchestrator.
type MediaOption func(*MediaOrchestrator)

// WithUploadConcurrency sets the number of files uploaded in parallel.
func WithUploadConcurrency(n int) MediaOption {
	return func(m *MediaOrchestrator) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithUploadTimeout bounds each file upload.
func WithUploadTimeout(d time.Duration) MediaOption {
	return func(m *MediaOrchestrator) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithMediaLogger injects a logger.
func WithMediaLogger(logger *slog.Logger) MediaOption {
	return func(m *MediaOrchestrator) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMediaOrchestrator wires an orchestrator around an uploader and a preview store.
func NewMediaOrchestrator(uploader ports.MediaUploader, previews ports.PreviewStore, opts ...MediaOption) *MediaOrchestrator {
	m := &MediaOrchestrator{
		uploader:    uploader,
		previews:    previews,
		concurrency: DefaultUploadConcurrency,
		timeout:     DefaultUploadTimeout,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		held:        map[string]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

type uploadSlot struct {
	file   domain.MediaFile
	handle string
	remote string
	err    error
}

// Upload creates a preview for every file before any network call, then uploads
// the files with bounded parallelism. Per-file failures are isolated: the failed
// file's preview is revoked and the rest of the batch proceeds. Successful items
// are appended in selection order regardless of completion order.
func (m *MediaOrchestrator) Upload(ctx context.Context, token string, files []domain.MediaFile) ([]domain.UploadedMedia, []adverttypes.UploadFailure, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}
	if m.isClosed() {
		return nil, nil, ErrDraftClosed
	}

	slots := make([]uploadSlot, len(files))
	for i, file := range files {
		slots[i].file = file
		if !filetype.IsImage(file.Data) {
			slots[i].err = errNotAnImage
			continue
		}
		handle, err := m.previews.Create(ctx, file)
		if err != nil {
			slots[i].err = fmt.Errorf("create preview: %w", err)
			continue
		}
		if !m.hold(handle) {
			if err := m.previews.Revoke(context.WithoutCancel(ctx), handle); err != nil {
				m.logger.Warn("failed to revoke preview", slog.String("handle", handle), slog.String("error", err.Error()))
			}
			slots[i].err = ErrDraftClosed
			continue
		}
		slots[i].handle = handle
	}

	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i := range slots {
		if slots[i].err != nil {
			continue
		}
		slot := &slots[i]
		g.Go(func() error {
			slot.remote, slot.err = m.uploadOne(ctx, token, slot.file)
			return nil
		})
	}
	_ = g.Wait()

	var (
		added    []domain.UploadedMedia
		failures []adverttypes.UploadFailure
	)
	m.mu.Lock()
	closed := m.closed
	for i, slot := range slots {
		if slot.err == nil && closed {
			slots[i].err = errMediaReleased
			slot = slots[i]
		}
		if slot.err != nil {
			failures = append(failures, adverttypes.UploadFailure{Index: i, FileName: slot.file.Name, Reason: slot.err.Error()})
			continue
		}
		item := domain.UploadedMedia{RemoteFileName: slot.remote, PreviewHandle: slot.handle}
		m.items = append(m.items, item)
		added = append(added, item)
	}
	m.mu.Unlock()

	for _, slot := range slots {
		if slot.err != nil && slot.handle != "" {
			m.release(ctx, slot.handle)
		}
	}
	for _, f := range failures {
		m.logger.Warn("media upload failed", slog.String("file", f.FileName), slog.String("error", f.Reason))
	}
	return added, failures, nil
}

func (m *MediaOrchestrator) uploadOne(ctx context.Context, token string, file domain.MediaFile) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	body, err := m.uploader.Upload(ctx, token, file)
	if err != nil {
		return "", err
	}
	remote, ok := domain.ExtractMediaIdentifier(body)
	if !ok {
		return "", errNoIdentifier
	}
	return remote, nil
}

// Remove drops the item at index and revokes only its preview handle.
func (m *MediaOrchestrator) Remove(ctx context.Context, index int) (domain.UploadedMedia, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return domain.UploadedMedia{}, ErrDraftClosed
	}
	if index < 0 || index >= len(m.items) {
		m.mu.Unlock()
		return domain.UploadedMedia{}, ErrMediaNotFound
	}
	removed := m.items[index]
	m.items = append(m.items[:index:index], m.items[index+1:]...)
	m.mu.Unlock()

	m.release(ctx, removed.PreviewHandle)
	return removed, nil
}

// Items returns a copy of the uploaded list in order.
func (m *MediaOrchestrator) Items() []domain.UploadedMedia {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.UploadedMedia(nil), m.items...)
}

// RemoteFileNames returns the server identifiers in order.
func (m *MediaOrchestrator) RemoteFileNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.items))
	for _, item := range m.items {
		names = append(names, item.RemoteFileName)
	}
	return names
}

// Close revokes every handle still held, including those of in-flight uploads,
// and empties the item list. Uploads finishing afterwards are discarded without
// a second revocation.
func (m *MediaOrchestrator) Close(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.items = nil
	handles := make([]string, 0, len(m.held))
	for handle := range m.held {
		handles = append(handles, handle)
	}
	m.mu.Unlock()

	for _, handle := range handles {
		m.release(ctx, handle)
	}
}

func (m *MediaOrchestrator) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MediaOrchestrator) hold(handle string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.held[handle] = struct{}{}
	return true
}

// release revokes handle if this orchestrator still holds it.
func (m *MediaOrchestrator) release(ctx context.Context, handle string) {
	m.mu.Lock()
	if _, ok := m.held[handle]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.held, handle)
	m.mu.Unlock()

	if err := m.previews.Revoke(context.WithoutCancel(ctx), handle); err != nil {
		m.logger.Warn("failed to revoke preview", slog.String("handle", handle), slog.String("error", err.Error()))
	}
}
