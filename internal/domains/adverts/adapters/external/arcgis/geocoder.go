package arcgis

import (
	"context"
	"errors"

	arcgisclient "github.com/petsetu/petsetu-web/internal/clients/http/arcgis"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

var _ ports.Geocoder = (*Geocoder)(nil)

// Geocoder implements the address lookup port over the ArcGIS client.
type Geocoder struct {
	client *arcgisclient.Client
}

// NewGeocoder wires an ArcGIS client into a geocoder adapter.
func NewGeocoder(client *arcgisclient.Client) *Geocoder {
	return &Geocoder{client: client}
}

// FindAddressCandidates maps provider candidates into address suggestions.
func (g *Geocoder) FindAddressCandidates(ctx context.Context, query string) ([]domain.AddressSuggestion, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("geocoder not configured")
	}
	candidates, err := g.client.FindAddressCandidates(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AddressSuggestion, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, domain.AddressSuggestion{Address: c.Address, X: c.Location.X, Y: c.Location.Y})
	}
	return out, nil
}
