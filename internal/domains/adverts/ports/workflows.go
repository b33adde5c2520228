package ports

import (
	"context"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
)

// WorkflowOrchestrator runs post creation either inline or on a durable engine.
type WorkflowOrchestrator interface {
	CreatePost(ctx context.Context, cmd adverttypes.CreatePostCommand) (map[string]any, error)
}
