package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	backendclient "github.com/petsetu/petsetu-web/internal/clients/http/backend"
	"github.com/petsetu/petsetu-web/internal/domains/leads/domain"
	"github.com/petsetu/petsetu-web/internal/domains/leads/ports"
)

var _ ports.Gateway = (*Gateway)(nil)

// Gateway posts leads to the backend REST API.
type Gateway struct {
	client *backendclient.Client
}

func NewGateway(client *backendclient.Client) *Gateway {
	return &Gateway{client: client}
}

// Submit forwards lead, attaching the bearer token when present.
func (g *Gateway) Submit(ctx context.Context, token string, lead domain.Lead) (*domain.Receipt, error) {
	body, err := g.client.CreateLead(ctx, token, lead)
	if err != nil {
		return nil, mapError(err)
	}
	return &domain.Receipt{ID: leadID(body), LeadType: lead.LeadType}, nil
}

// leadID reads the created id from either the top level or a nested "lead".
func leadID(body map[string]any) string {
	for _, src := range []map[string]any{body, nested(body, "lead"), nested(body, "data")} {
		for _, key := range []string{"id", "_id"} {
			if id, ok := src[key].(string); ok && id != "" {
				return id
			}
		}
	}
	return ""
}

func nested(body map[string]any, key string) map[string]any {
	m, _ := body[key].(map[string]any)
	return m
}

func mapError(err error) error {
	if errors.Is(err, backendclient.ErrTimeout) {
		return fmt.Errorf("%w: %w", ports.ErrUpstreamTimeout, err)
	}
	var status *backendclient.StatusError
	if errors.As(err, &status) && status.StatusCode >= 400 && status.StatusCode < 500 {
		detail := strings.TrimSpace(status.Message)
		if detail == "" {
			detail = strconv.Itoa(status.StatusCode) + " " + http.StatusText(status.StatusCode)
		}
		return fmt.Errorf("%w: %s", ports.ErrRejected, detail)
	}
	return fmt.Errorf("%w: create lead failed: %w", ports.ErrUpstream, err)
}
