package adverts

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	advertactivities "github.com/petsetu/petsetu-web/internal/platform/temporal/activities/adverts"
)

const (
	// PostCreationWorkflowName is the public identifier for registering the workflow.
	PostCreationWorkflowName = "adverts.workflows.PostCreation"
	// PostCreationTaskQueue is the queue consumed by the worker processing advert workflows.
	PostCreationTaskQueue = "POST_CREATION"
)

// PostCreationWorkflowInput captures the payload required to create a post.
type PostCreationWorkflowInput struct {
	Command adverttypes.CreatePostCommand
	TraceID string
}

// PostCreationWorkflow creates the backend post for a submitted draft.
func PostCreationWorkflow(ctx workflow.Context, input PostCreationWorkflowInput) (map[string]any, error) {
	logger := workflow.GetLogger(ctx)
	draftID := input.Command.DraftID
	logger.Info("PostCreationWorkflow started", withTraceID(input.TraceID, "draftId", draftID)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: 20 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				advertactivities.ErrorTypeUnauthorized,
				advertactivities.ErrorTypeResponseShape,
				advertactivities.ErrorTypeRejected,
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var body map[string]any
	if err := workflow.ExecuteActivity(ctx, advertactivities.CreatePostActivityName, input.Command).Get(ctx, &body); err != nil {
		logger.Error("PostCreationWorkflow failed", withTraceID(input.TraceID, "draftId", draftID, "error", err)...)
		return nil, err
	}
	logger.Info("PostCreationWorkflow completed", withTraceID(input.TraceID, "draftId", draftID)...)
	return body, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
