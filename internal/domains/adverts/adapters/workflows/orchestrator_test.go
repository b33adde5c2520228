package workflows

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
)

type recordingCreator struct {
	token   string
	payload domain.CreatePostPayload
}

func (c *recordingCreator) CreatePost(_ context.Context, token string, payload domain.CreatePostPayload) (map[string]any, error) {
	c.token = token
	c.payload = payload
	return map[string]any{"id": "p1"}, nil
}

func TestInlinePostWorkflows(t *testing.T) {
	creator := &recordingCreator{}
	body, err := NewInlinePostWorkflows(creator).CreatePost(context.Background(), adverttypes.CreatePostCommand{
		Token:   "tok",
		Payload: domain.CreatePostPayload{Name: "Bruno"},
	})
	require.NoError(t, err)
	require.Equal(t, "p1", body["id"])
	require.Equal(t, "tok", creator.token)
	require.Equal(t, "Bruno", creator.payload.Name)

	_, err = NewInlinePostWorkflows(nil).CreatePost(context.Background(), adverttypes.CreatePostCommand{})
	require.Error(t, err)
}

func TestBuildPostCreationWorkflowID(t *testing.T) {
	cmd := adverttypes.CreatePostCommand{DraftID: "d1", RequestHash: "h1"}
	first := buildPostCreationWorkflowID(cmd, "trace-a")
	require.Equal(t, first, buildPostCreationWorkflowID(cmd, "trace-b"))
	require.True(t, strings.HasPrefix(first, "post-creation-"))

	cmd.RequestHash = "h2"
	require.NotEqual(t, first, buildPostCreationWorkflowID(cmd, "trace-a"))
	require.Equal(t, "post-creation-trace-a", buildPostCreationWorkflowID(adverttypes.CreatePostCommand{}, "trace-a"))
}

func TestTemporalPostWorkflows_NotConfigured(t *testing.T) {
	_, err := NewTemporalPostWorkflows(nil).CreatePost(context.Background(), adverttypes.CreatePostCommand{})
	require.Error(t, err)
}
