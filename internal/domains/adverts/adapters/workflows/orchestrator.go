package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
	advertactivities "github.com/petsetu/petsetu-web/internal/platform/temporal/activities/adverts"
	advertworkflows "github.com/petsetu/petsetu-web/internal/platform/temporal/workflows/adverts"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalPostWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlinePostWorkflows)(nil)
)

// TemporalPostWorkflows starts post creation workflows on a Temporal cluster.
type TemporalPostWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPostWorkflows wires a Temporal client into the orchestrator.
func NewTemporalPostWorkflows(c client.Client) *TemporalPostWorkflows {
	return &TemporalPostWorkflows{client: c, taskQueue: advertworkflows.PostCreationTaskQueue}
}

// CreatePost starts the workflow for the command and waits for its result. A
// submission of the same draft and payload joins the run already started for it.
func (o *TemporalPostWorkflows) CreatePost(ctx context.Context, cmd adverttypes.CreatePostCommand) (map[string]any, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal post workflows not configured")
	}
	workflowID := buildPostCreationWorkflowID(cmd, workflowTraceComponent(ctx))
	options := client.StartWorkflowOptions{
		ID:                    workflowID,
		TaskQueue:             o.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
	}
	input := advertworkflows.PostCreationWorkflowInput{Command: cmd, TraceID: workflowTraceID(ctx)}
	run, err := o.client.ExecuteWorkflow(ctx, options, advertworkflows.PostCreationWorkflowName, input)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, fmt.Errorf("%w: start workflow: %w", ports.ErrUpstream, err)
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var body map[string]any
	if err := run.Get(ctx, &body); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ports.ErrUpstreamTimeout, err)
		}
		return nil, advertactivities.FromApplicationError(err)
	}
	return body, nil
}

// InlinePostWorkflows calls the backend directly without Temporal, useful for tests or dev fallbacks.
type InlinePostWorkflows struct {
	creator ports.PostCreator
}

// NewInlinePostWorkflows wraps a post creator for synchronous execution.
func NewInlinePostWorkflows(creator ports.PostCreator) *InlinePostWorkflows {
	return &InlinePostWorkflows{creator: creator}
}

// CreatePost delegates to the backend without durable orchestration.
func (o *InlinePostWorkflows) CreatePost(ctx context.Context, cmd adverttypes.CreatePostCommand) (map[string]any, error) {
	if o == nil || o.creator == nil {
		return nil, errors.New("inline post workflows not configured")
	}
	return o.creator.CreatePost(ctx, cmd.Token, cmd.Payload)
}

func buildPostCreationWorkflowID(cmd adverttypes.CreatePostCommand, traceComponent string) string {
	if cmd.DraftID != "" && cmd.RequestHash != "" {
		return fmt.Sprintf("post-creation-%s", hashKey(cmd.DraftID+":"+cmd.RequestHash))
	}
	return fmt.Sprintf("post-creation-%s", traceComponent)
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceComponent := workflowTraceID(ctx); traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
