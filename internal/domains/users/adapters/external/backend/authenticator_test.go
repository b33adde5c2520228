package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	backendclient "github.com/petsetu/petsetu-web/internal/clients/http/backend"
	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
	"github.com/petsetu/petsetu-web/internal/domains/users/ports"
)

const authBody = `{"user":{"id":"u1","name":"Asha","email":"asha@example.com","role":"user","userType":["seller"]},
"tokens":{"access":{"token":"acc","expires":"2099-01-01T00:00:00.000Z"},"refresh":{"token":"ref","expires":"2099-02-01T00:00:00.000Z"}}}`

func newAuthenticator(t *testing.T, handler http.HandlerFunc) *Authenticator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := backendclient.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)
	return NewAuthenticator(client)
}

func TestAuthenticator_Login(t *testing.T) {
	auth := newAuthenticator(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "right" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"Incorrect email or password"}`))
			return
		}
		_, _ = w.Write([]byte(authBody))
	})

	session, err := auth.Login(context.Background(), domain.Credentials{Email: "asha@example.com", Password: "right"})
	require.NoError(t, err)
	require.Equal(t, "u1", session.User.ID)
	require.Equal(t, "acc", session.AccessToken())
	require.Equal(t, "ref", session.Tokens.Refresh.Value)

	_, err = auth.Login(context.Background(), domain.Credentials{Email: "asha@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
	require.Contains(t, err.Error(), "Incorrect email or password")
}

func TestAuthenticator_Register(t *testing.T) {
	var got map[string]any
	auth := newAuthenticator(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got["email"] == "taken@example.com" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Email already taken"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(authBody))
	})

	reg := domain.Registration{Name: "Asha", Email: "asha@example.com", Password: "secret1", Coordinates: &[2]float64{73.85, 18.52}}
	reg.ApplyDefaults()
	session, err := auth.Register(context.Background(), reg)
	require.NoError(t, err)
	require.Equal(t, "acc", session.AccessToken())
	require.Equal(t, "user", got["role"])
	require.Equal(t, []any{"seller"}, got["userType"])
	require.Equal(t, "individual", got["sellerType"])
	require.Equal(t, map[string]any{"type": "Point", "coordinates": []any{73.85, 18.52}}, got["loc"])

	reg.Email = "taken@example.com"
	_, err = auth.Register(context.Background(), reg)
	require.ErrorIs(t, err, ports.ErrRejected)

	failing := newAuthenticator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err = failing.Register(context.Background(), reg)
	require.ErrorIs(t, err, ports.ErrUpstream)
}
