package arcgis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
)

// DefaultFindURL is the public World geocoding service.
const DefaultFindURL = "https://geocode-api.arcgis.com/arcgis/rest/services/World/GeocodeServer/findAddressCandidates"

// Location is a candidate position. X is longitude and Y latitude.
type Location struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// Candidate is one geocoding match.
type Candidate struct {
	Address  string   `json:"address"`
	Location Location `json:"location"`
	Score    float64  `json:"score"`
}

type findResponse struct {
	Candidates []Candidate `json:"candidates"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the findAddressCandidates operation.
type Client struct {
	findURL string
	token   string
	http    *http.Client
}

// NewClient instantiates the geocoding client. An empty findURL selects DefaultFindURL.
func NewClient(findURL, token string, httpClient *http.Client) (*Client, error) {
	findURL = strings.TrimSpace(findURL)
	if findURL == "" {
		findURL = DefaultFindURL
	}
	parsed, err := url.Parse(findURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid geocoder URL %q", findURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{findURL: findURL, token: strings.TrimSpace(token), http: httpClient}, nil
}

// FindAddressCandidates returns the provider's candidates for address in relevance order.
func (c *Client) FindAddressCandidates(ctx context.Context, address string) ([]Candidate, error) {
	if c == nil {
		return nil, errors.New("geocoder not configured")
	}
	query := url.Values{}
	params := []struct {
		name  string
		value string
	}{{"address", address}, {"f", "json"}, {"token", c.token}}
	for _, p := range params {
		if p.value == "" {
			continue
		}
		frag, err := runtime.StyleParamWithLocation("form", true, p.name, runtime.ParamLocationQuery, p.value)
		if err != nil {
			return nil, err
		}
		parsed, err := url.ParseQuery(frag)
		if err != nil {
			return nil, err
		}
		query.Set(p.name, parsed.Get(p.name))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.findURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("geocoder responded %s", resp.Status)
	}
	var out findResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode geocoder response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("geocoder error %d: %s", out.Error.Code, out.Error.Message)
	}
	return out.Candidates, nil
}
