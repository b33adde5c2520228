package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

func TestMediaOrchestrator_KeepsSelectionOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	uploader := newFakeUploader().
		on("a.png", uploadBehavior{delay: 40 * time.Millisecond, body: map[string]any{"fileName": "a-remote.png"}}).
		on("b.png", uploadBehavior{body: map[string]any{"url": "https://cdn.example.com/b.png"}}).
		on("c.png", uploadBehavior{delay: 10 * time.Millisecond, body: map[string]any{"Location": "https://s3.example.com/c.png"}})
	previews := newCountingPreviews()
	m := NewMediaOrchestrator(uploader, previews, WithUploadConcurrency(3))

	added, failures, err := m.Upload(context.Background(), "token-1", []domain.MediaFile{
		imageFile("a.png"), imageFile("b.png"), imageFile("c.png"),
	})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Len(t, added, 3)
	require.Equal(t, []string{"a-remote.png", "https://cdn.example.com/b.png", "https://s3.example.com/c.png"}, m.RemoteFileNames())
	require.Equal(t, 3, previews.Live())
	for _, item := range added {
		require.NotEmpty(t, item.PreviewHandle)
	}
}

func TestMediaOrchestrator_IsolatesFailures(t *testing.T) {
	defer goleak.VerifyNone(t)
	uploader := newFakeUploader().
		on("bad.png", uploadBehavior{err: ports.ErrUpstream}).
		on("shape.png", uploadBehavior{body: map[string]any{"url": "/relative.png"}})
	previews := newCountingPreviews()
	m := NewMediaOrchestrator(uploader, previews)

	added, failures, err := m.Upload(context.Background(), "token-1", []domain.MediaFile{
		imageFile("ok.png"),
		imageFile("bad.png"),
		{Name: "notes.txt", Data: []byte("plain text")},
		imageFile("shape.png"),
	})
	require.NoError(t, err)
	require.Len(t, added, 1)
	require.Equal(t, "ok.png", added[0].RemoteFileName)

	require.Len(t, failures, 3)
	require.Equal(t, 1, failures[0].Index)
	require.Equal(t, "bad.png", failures[0].FileName)
	require.Equal(t, 2, failures[1].Index)
	require.Equal(t, errNotAnImage.Error(), failures[1].Reason)
	require.Equal(t, 3, failures[2].Index)
	require.Contains(t, failures[2].Reason, ports.ErrResponseShape.Error())

	// Only the successful file keeps a preview; failed ones were revoked once.
	require.Equal(t, 1, previews.Live())
	require.Equal(t, 2, previews.Revoked())
	require.Equal(t, 1, previews.maxRevokes())
}

func TestMediaOrchestrator_RemoveRevokesOnlyThatHandle(t *testing.T) {
	defer goleak.VerifyNone(t)
	previews := newCountingPreviews()
	m := NewMediaOrchestrator(newFakeUploader(), previews)
	added, _, err := m.Upload(context.Background(), "token-1", []domain.MediaFile{imageFile("a.png"), imageFile("b.png")})
	require.NoError(t, err)

	removed, err := m.Remove(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, added[0], removed)
	require.Equal(t, 1, previews.revokeCount(added[0].PreviewHandle))
	require.Equal(t, 0, previews.revokeCount(added[1].PreviewHandle))
	require.Equal(t, []string{"b.png"}, m.RemoteFileNames())

	_, err = m.Remove(context.Background(), 5)
	require.ErrorIs(t, err, ErrMediaNotFound)

	m.Close(context.Background())
	m.Close(context.Background())
	require.Equal(t, 0, previews.Live())
	require.Equal(t, 1, previews.maxRevokes())
	require.Empty(t, m.Items())
	require.Empty(t, m.RemoteFileNames())

	_, err = m.Remove(context.Background(), 0)
	require.ErrorIs(t, err, ErrDraftClosed)
	_, _, err = m.Upload(context.Background(), "token-1", []domain.MediaFile{imageFile("c.png")})
	require.ErrorIs(t, err, ErrDraftClosed)
}

func TestMediaOrchestrator_CloseDuringUpload(t *testing.T) {
	defer goleak.VerifyNone(t)
	gate := make(chan struct{})
	uploader := newFakeUploader().on("slow.png", uploadBehavior{gate: gate, body: map[string]any{"fileName": "slow.png"}})
	previews := newCountingPreviews()
	m := NewMediaOrchestrator(uploader, previews)

	type outcome struct {
		added    []domain.UploadedMedia
		failures int
	}
	done := make(chan outcome, 1)
	go func() {
		added, failures, _ := m.Upload(context.Background(), "token-1", []domain.MediaFile{imageFile("slow.png")})
		done <- outcome{added, len(failures)}
	}()
	<-uploader.started

	m.Close(context.Background())
	require.Equal(t, 0, previews.Live())
	close(gate)

	got := <-done
	require.Empty(t, got.added)
	require.Equal(t, 1, got.failures)
	require.Empty(t, m.Items())
	require.Equal(t, 1, previews.maxRevokes())
}

func TestMediaOrchestrator_ForwardsToken(t *testing.T) {
	defer goleak.VerifyNone(t)
	uploader := newFakeUploader()
	m := NewMediaOrchestrator(uploader, newCountingPreviews())
	_, _, err := m.Upload(context.Background(), "token-9", []domain.MediaFile{imageFile("a.png")})
	require.NoError(t, err)
	require.Equal(t, []string{"token-9"}, uploader.tokens)
}
