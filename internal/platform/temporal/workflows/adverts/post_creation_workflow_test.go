package adverts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	advertports "github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
	advertactivities "github.com/petsetu/petsetu-web/internal/platform/temporal/activities/adverts"
)

func newEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	activities := advertactivities.NewActivities(nil)
	env.RegisterActivityWithOptions(activities.CreatePost, activity.RegisterOptions{Name: advertactivities.CreatePostActivityName})
	return env
}

func TestPostCreationWorkflow_Success(t *testing.T) {
	env := newEnv(t)
	env.OnActivity(advertactivities.CreatePostActivityName, mock.Anything, mock.Anything).
		Return(map[string]any{"post": map[string]any{"id": "p1"}}, nil)

	env.ExecuteWorkflow(PostCreationWorkflow, PostCreationWorkflowInput{Command: adverttypes.CreatePostCommand{DraftID: "d1"}})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var body map[string]any
	require.NoError(t, env.GetWorkflowResult(&body))
	require.Equal(t, map[string]any{"id": "p1"}, body["post"])
}

func TestPostCreationWorkflow_RetriesTransientFailures(t *testing.T) {
	env := newEnv(t)
	attempts := 0
	env.OnActivity(advertactivities.CreatePostActivityName, mock.Anything, mock.Anything).
		Return(func(context.Context, adverttypes.CreatePostCommand) (map[string]any, error) {
			attempts++
			if attempts < 3 {
				return nil, advertactivities.ToApplicationError(advertports.ErrUpstream)
			}
			return map[string]any{"id": "p1"}, nil
		})

	env.ExecuteWorkflow(PostCreationWorkflow, PostCreationWorkflowInput{Command: adverttypes.CreatePostCommand{DraftID: "d1"}})
	require.NoError(t, env.GetWorkflowError())
	require.Equal(t, 3, attempts)
}

func TestPostCreationWorkflow_StopsOnRejectedCredentials(t *testing.T) {
	env := newEnv(t)
	attempts := 0
	env.OnActivity(advertactivities.CreatePostActivityName, mock.Anything, mock.Anything).
		Return(func(context.Context, adverttypes.CreatePostCommand) (map[string]any, error) {
			attempts++
			return nil, advertactivities.ToApplicationError(advertports.ErrUpstreamUnauthorized)
		})

	env.ExecuteWorkflow(PostCreationWorkflow, PostCreationWorkflowInput{Command: adverttypes.CreatePostCommand{DraftID: "d1"}})
	err := env.GetWorkflowError()
	require.Error(t, err)
	require.Equal(t, 1, attempts)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, advertactivities.ErrorTypeUnauthorized, appErr.Type())
	require.ErrorIs(t, advertactivities.FromApplicationError(err), advertports.ErrUpstreamUnauthorized)
}
