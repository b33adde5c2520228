package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

var _ ports.PreviewStore = (*PreviewStore)(nil)

// PreviewStore holds local copies of selected files under random handles.
type PreviewStore struct {
	mu       sync.RWMutex
	previews map[string]ports.Preview
	revoked  int
}

// NewPreviewStore constructs an empty store.
func NewPreviewStore() *PreviewStore {
	return &PreviewStore{previews: map[string]ports.Preview{}}
}

// Create stores a copy of the file and returns its handle.
func (s *PreviewStore) Create(_ context.Context, file domain.MediaFile) (string, error) {
	handle := uuid.NewString()
	contentType := previewContentType(file)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previews[handle] = ports.Preview{
		Handle:      handle,
		FileName:    file.Name,
		ContentType: contentType,
		Data:        append([]byte(nil), file.Data...),
	}
	return handle, nil
}

// previewContentType prefers the sniffed type over the declared one.
func previewContentType(file domain.MediaFile) string {
	if kind, err := filetype.Match(file.Data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if file.ContentType != "" {
		return file.ContentType
	}
	return "application/octet-stream"
}

// Get returns the preview for handle.
func (s *PreviewStore) Get(_ context.Context, handle string) (*ports.Preview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	preview, ok := s.previews[handle]
	if !ok {
		return nil, ports.ErrPreviewNotFound
	}
	return &preview, nil
}

// Revoke releases the handle.
func (s *PreviewStore) Revoke(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.previews[handle]; !ok {
		return ports.ErrPreviewNotFound
	}
	delete(s.previews, handle)
	s.revoked++
	return nil
}

// Live reports how many handles are still held.
func (s *PreviewStore) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.previews)
}

// Revoked reports how many handles were released.
func (s *PreviewStore) Revoked() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revoked
}
