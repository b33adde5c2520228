package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
)

// DefaultTimeout bounds every backend request unless the caller supplies its own client.
const DefaultTimeout = 15 * time.Second

var (
	// ErrTimeout reports a request that did not complete in time.
	ErrTimeout = errors.New("backend request timed out")
	// ErrTransport reports a request that failed before a response arrived.
	ErrTransport = errors.New("backend request failed")
	// ErrInvalidResponse reports a 2xx answer whose body is not the expected JSON.
	ErrInvalidResponse = errors.New("backend returned an invalid response body")
)

// StatusError is returned for non-2xx answers.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend responded %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend responded %s", e.Status)
}

// HTTPStatus exposes the status code to callers that classify failures.
func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// Client talks to the PetSetu REST backend.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient instantiates the backend client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("backend base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend base URL must be absolute: %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{base: base, http: httpClient}, nil
}

// BaseURL returns the configured backend base.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, body LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its token pair.
func (c *Client) Register(ctx context.Context, body RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBreeds lists the breeds of a backend category.
func (c *Client) ListBreeds(ctx context.Context, token, categoryID string, params ListBreedsParams) (*BreedList, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "categoryId", runtime.ParamLocationPath, categoryID)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	if params.Limit > 0 {
		if err := addQueryParam(query, "limit", params.Limit); err != nil {
			return nil, err
		}
	}
	if params.Page > 0 {
		if err := addQueryParam(query, "page", params.Page); err != nil {
			return nil, err
		}
	}
	var out BreedList
	if err := c.doJSON(ctx, http.MethodGet, "/pets/pet-breeds/"+pathParam, query, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadMedia stores one file and returns the decoded response body.
func (c *Client) UploadMedia(ctx context.Context, token string, file MediaFile) (map[string]any, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/media/upload", nil, token, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out map[string]any
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePost creates a listing and returns the decoded response body.
func (c *Client) CreatePost(ctx context.Context, token string, payload any) (map[string]any, error) {
	var out map[string]any
	if err := c.doJSON(ctx, http.MethodPost, "/post/combined", nil, token, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchPosts lists listings matching the filter body.
func (c *Client) SearchPosts(ctx context.Context, params SearchPostsParams, body SearchPostsBody) (*PostsPage, error) {
	query := url.Values{}
	if params.SortBy != "" {
		if err := addQueryParam(query, "sortBy", params.SortBy); err != nil {
			return nil, err
		}
	}
	if err := addQueryParam(query, "page", max(params.Page, 1)); err != nil {
		return nil, err
	}
	if params.Limit > 0 {
		if err := addQueryParam(query, "limit", params.Limit); err != nil {
			return nil, err
		}
	}
	var out PostsPage
	if err := c.doJSON(ctx, http.MethodPost, "/post/get-posts", query, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPost loads one listing. The backend answers either with the post or with {"post": ...}.
func (c *Client) GetPost(ctx context.Context, token, id string) (*Post, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/post/"+pathParam, nil, token, nil, &raw); err != nil {
		return nil, err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	if nested, ok := raw["post"]; ok && len(nested) > 0 && nested[0] == '{' {
		data = nested
	}
	var post Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &post, nil
}

// CreateLead submits a lead. The token is optional.
func (c *Client) CreateLead(ctx context.Context, token string, payload any) (map[string]any, error) {
	var out map[string]any
	if err := c.doJSON(ctx, http.MethodPost, "/leads", nil, token, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, method, path, query, token, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, token string, body io.Reader) (*http.Request, error) {
	// path segments arrive already escaped by the parameter styler.
	target := strings.TrimRight(c.base.String(), "/") + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build backend request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(req.Context(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return classifyTransportError(req.Context(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Message: errorMessage(body)}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// errorMessage prefers the JSON "message" field and falls back to the raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return strings.TrimSpace(payload.Message)
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 300 {
		text = text[:300]
	}
	return text
}

func addQueryParam(query url.Values, name string, value any) error {
	frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return err
	}
	parsed, err := url.ParseQuery(frag)
	if err != nil {
		return err
	}
	for k, v := range parsed {
		for _, item := range v {
			query.Add(k, item)
		}
	}
	return nil
}
