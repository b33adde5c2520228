package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	advertmemory "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/memory"
	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

func TestSubmit_RequiresFinalStep(t *testing.T) {
	ws := newTestWorkspace(newFakeUploader(), newCountingPreviews())
	defer ws.Close(context.Background())
	workflows := &fakeWorkflows{body: map[string]any{"id": "p1"}}
	s := NewSubmitter(workflows, nil, true)

	_, err := s.Submit(context.Background(), ws, "d1", author)
	require.ErrorIs(t, err, ErrNotFinalStep)
	require.Zero(t, workflows.Calls())
}

func TestSubmit_LocalValidationKeepsStep(t *testing.T) {
	ws := newTestWorkspace(newFakeUploader(), newCountingPreviews())
	defer ws.Close(context.Background())
	fillToLastStep(t, ws.Form)
	require.NoError(t, ws.Form.Patch([]byte(`{"name":""}`)))
	workflows := &fakeWorkflows{body: map[string]any{"id": "p1"}}

	_, err := NewSubmitter(workflows, nil, true).Submit(context.Background(), ws, "d1", author)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "name")
	require.Equal(t, domain.LastStep, ws.Form.Step())
	require.Zero(t, workflows.Calls())
}

func TestSubmit_GuardsBeforeNetwork(t *testing.T) {
	cases := []struct {
		name       string
		configured bool
		author     domain.Author
		want       error
		notice     string
	}{
		{"not configured", false, author, ErrConfiguration, "Config error: API base not set"},
		{"no token", true, domain.Author{UserID: "user-1"}, ErrAuthRequired, "Auth required: Please login again"},
		{"no user", true, domain.Author{Token: "token-1"}, ErrAuthRequired, "Auth required: Please login again"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ws := newTestWorkspace(newFakeUploader(), newCountingPreviews())
			defer ws.Close(context.Background())
			fillToLastStep(t, ws.Form)
			workflows := &fakeWorkflows{body: map[string]any{"id": "p1"}}

			_, err := NewSubmitter(workflows, nil, tc.configured).Submit(context.Background(), ws, "d1", tc.author)
			require.ErrorIs(t, err, tc.want)
			require.Zero(t, workflows.Calls())
			view := ws.view("d1")
			require.Equal(t, []string{tc.notice}, view.Notices)
			require.Equal(t, domain.LastStep, view.Step)
			require.Equal(t, adverttypes.PhaseEditing, view.Phase)
		})
	}
}

func TestSubmit_SuccessNavigates(t *testing.T) {
	ctx := context.Background()
	previews := newCountingPreviews()
	ws := newTestWorkspace(newFakeUploader(), previews)
	defer ws.Close(ctx)
	fillToLastStep(t, ws.Form)
	_, _, err := ws.Media.Upload(ctx, author.Token, []domain.MediaFile{imageFile("a.png"), imageFile("b.png")})
	require.NoError(t, err)

	workflows := &fakeWorkflows{body: map[string]any{"post": map[string]any{"_id": "post 1"}}}
	submissions := advertmemory.NewSubmissionStore()
	result, err := NewSubmitter(workflows, submissions, true).Submit(ctx, ws, "d1", author)
	require.NoError(t, err)
	require.Equal(t, "post 1", result.PostID)
	require.Equal(t, "/post/post%201", result.Location)
	require.False(t, result.Replayed)

	require.Equal(t, 1, workflows.Calls())
	cmd := workflows.commands[0]
	require.Equal(t, "d1", cmd.DraftID)
	require.Equal(t, "token-1", cmd.Token)
	require.NotEmpty(t, cmd.RequestHash)
	require.Equal(t, []string{"a.png", "b.png"}, cmd.Payload.Photos)
	require.Equal(t, "user-1", cmd.Payload.OwnerID)
	require.Equal(t, "individual", cmd.Payload.SellerType)

	require.Equal(t, adverttypes.PhaseNavigated, ws.Phase())
	require.ErrorIs(t, ws.ensureEditing(), ErrDraftClosed)

	record, err := submissions.Get(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, "post 1", record.PostID)
	require.Equal(t, cmd.RequestHash, record.RequestHash)
}

func TestSubmit_FailureResetsToFirstStep(t *testing.T) {
	cases := []struct {
		name      string
		workflows *fakeWorkflows
		want      error
	}{
		{"backend error", &fakeWorkflows{err: ports.ErrUpstream}, ports.ErrUpstream},
		{"timeout", &fakeWorkflows{err: ports.ErrUpstreamTimeout}, ports.ErrUpstreamTimeout},
		{"missing post id", &fakeWorkflows{body: map[string]any{"message": "ok"}}, ports.ErrResponseShape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ws := newTestWorkspace(newFakeUploader(), newCountingPreviews())
			defer ws.Close(context.Background())
			fillToLastStep(t, ws.Form)

			_, err := NewSubmitter(tc.workflows, nil, true).Submit(context.Background(), ws, "d1", author)
			require.ErrorIs(t, err, tc.want)

			view := ws.view("d1")
			require.Equal(t, domain.FirstStep, view.Step)
			require.Equal(t, "Bruno", view.Values.Name)
			require.Equal(t, adverttypes.PhaseEditing, view.Phase)
			require.Len(t, view.Notices, 1)
			require.Contains(t, view.Notices[0], "Failed to post: ")
		})
	}
}

func TestSubmit_ReplaysRecordedSubmission(t *testing.T) {
	ctx := context.Background()
	submissions := advertmemory.NewSubmissionStore()
	ws := newTestWorkspace(newFakeUploader(), newCountingPreviews())
	defer ws.Close(ctx)
	fillToLastStep(t, ws.Form)
	workflows := &fakeWorkflows{body: map[string]any{"id": "p1"}}
	s := NewSubmitter(workflows, submissions, true)

	_, err := s.Submit(ctx, ws, "d1", author)
	require.NoError(t, err)

	result, err := s.Submit(ctx, ws, "d1", author)
	require.NoError(t, err)
	require.True(t, result.Replayed)
	require.Equal(t, "p1", result.PostID)
	require.Equal(t, "/post/p1", result.Location)
	require.Equal(t, 1, workflows.Calls())
}

func TestSubmit_ReplaysWithoutStore(t *testing.T) {
	ctx := context.Background()
	ws := newTestWorkspace(newFakeUploader(), newCountingPreviews())
	defer ws.Close(ctx)
	fillToLastStep(t, ws.Form)
	workflows := &fakeWorkflows{body: map[string]any{"id": "p2"}}
	s := NewSubmitter(workflows, nil, true)

	_, err := s.Submit(ctx, ws, "d1", author)
	require.NoError(t, err)
	result, err := s.Submit(ctx, ws, "d1", author)
	require.NoError(t, err)
	require.True(t, result.Replayed)
	require.Equal(t, "p2", result.PostID)
	require.Equal(t, 1, workflows.Calls())
}

func TestSubmit_BeginRequiresFinalStep(t *testing.T) {
	ws := newTestWorkspace(newFakeUploader(), newCountingPreviews())
	defer ws.Close(context.Background())
	fillToLastStep(t, ws.Form)
	ws.Form.Retreat()

	require.ErrorIs(t, ws.beginSubmit(), ErrNotFinalStep)
	require.Equal(t, adverttypes.PhaseEditing, ws.Phase())
}

func TestSubmit_RejectsConcurrentSubmit(t *testing.T) {
	ws := newTestWorkspace(newFakeUploader(), newCountingPreviews())
	defer ws.Close(context.Background())
	fillToLastStep(t, ws.Form)
	require.NoError(t, ws.beginSubmit())

	_, err := NewSubmitter(&fakeWorkflows{}, nil, true).Submit(context.Background(), ws, "d1", author)
	require.ErrorIs(t, err, ErrSubmissionInProgress)
}
