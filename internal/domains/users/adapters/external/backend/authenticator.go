package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	backendclient "github.com/petsetu/petsetu-web/internal/clients/http/backend"
	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
	"github.com/petsetu/petsetu-web/internal/domains/users/ports"
)

var _ ports.Authenticator = (*Authenticator)(nil)

// Authenticator logs in and registers accounts through the backend REST API.
type Authenticator struct {
	client *backendclient.Client
}

// NewAuthenticator wraps a backend client.
func NewAuthenticator(client *backendclient.Client) *Authenticator {
	return &Authenticator{client: client}
}

// Login exchanges credentials for tokens.
func (a *Authenticator) Login(ctx context.Context, credentials domain.Credentials) (*domain.Session, error) {
	resp, err := a.client.Login(ctx, backendclient.LoginRequest{Email: credentials.Email, Password: credentials.Password})
	if err != nil {
		return nil, mapError("login", err)
	}
	return toSession(resp), nil
}

// Register creates the account and returns its first tokens.
func (a *Authenticator) Register(ctx context.Context, r domain.Registration) (*domain.Session, error) {
	req := backendclient.RegisterRequest{
		Email:      r.Email,
		Password:   r.Password,
		Name:       r.Name,
		Phone:      r.Phone,
		City:       r.City,
		Country:    r.Country,
		Pincode:    r.Pincode,
		Role:       r.Role,
		UserType:   append([]string(nil), r.UserType...),
		SellerType: r.SellerType,
	}
	if r.Coordinates != nil {
		req.Loc = &backendclient.GeoPoint{Type: "Point", Coordinates: *r.Coordinates}
	}
	resp, err := a.client.Register(ctx, req)
	if err != nil {
		return nil, mapError("register", err)
	}
	return toSession(resp), nil
}

func toSession(resp *backendclient.AuthResponse) *domain.Session {
	if resp == nil {
		return nil
	}
	u := resp.User
	return &domain.Session{
		User: domain.User{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			Role:       u.Role,
			UserType:   append([]string(nil), u.UserType...),
			Phone:      u.Phone,
			City:       u.City,
			Country:    u.Country,
			SellerType: u.SellerType,
		},
		Tokens: domain.Tokens{
			Access:  domain.Token{Value: resp.Tokens.Access.Token, Expires: resp.Tokens.Access.Expires},
			Refresh: domain.Token{Value: resp.Tokens.Refresh.Token, Expires: resp.Tokens.Refresh.Expires},
		},
	}
}

func mapError(op string, err error) error {
	if errors.Is(err, backendclient.ErrTimeout) {
		return fmt.Errorf("%w: %w", ports.ErrUpstreamTimeout, err)
	}
	var status *backendclient.StatusError
	if errors.As(err, &status) {
		detail := strings.TrimSpace(status.Message)
		if detail == "" {
			detail = strconv.Itoa(status.StatusCode) + " " + http.StatusText(status.StatusCode)
		}
		switch {
		case op == "login" && (status.StatusCode == http.StatusUnauthorized || status.StatusCode == http.StatusBadRequest):
			return fmt.Errorf("%w: %s", ports.ErrInvalidCredentials, detail)
		case status.StatusCode >= 400 && status.StatusCode < 500:
			return fmt.Errorf("%w: %s failed: %s", ports.ErrRejected, op, detail)
		}
	}
	return fmt.Errorf("%w: %s failed: %w", ports.ErrUpstream, op, err)
}
