//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	backendclient "github.com/petsetu/petsetu-web/internal/clients/http/backend"
	pacttest "github.com/petsetu/petsetu-web/test/pact"
)

func TestBackendContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateUserExists).
		UponReceiving("a login with valid credentials").
		WithRequest(http.MethodPost, "/auth/login", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"email": pacttest.UserEmail, "password": pacttest.UserPassword})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Like(pacttest.ExampleAuthPayload()))
		})

	pact.AddInteraction().
		Given(pacttest.StatePostsExist).
		UponReceiving("a search for active sell posts").
		WithRequest(http.MethodPost, "/post/get-posts", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("sortBy", matchers.S("createdAt:desc"))
			b.Query("page", matchers.S("1"))
			b.Query("limit", matchers.S("12"))
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"isActive": true, "postType": "sell"})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"results":      matchers.EachLike(pacttest.ExamplePostPayload(), 1),
				"page":         matchers.Like(1),
				"limit":        matchers.Like(12),
				"totalPages":   matchers.Like(1),
				"totalResults": matchers.Like(1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StatePostMissing).
		UponReceiving("a request for a missing post").
		WithRequest(http.MethodGet, "/post/"+pacttest.MissingPostID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"message": matchers.Like("Post not found")})
		})

	pact.AddInteraction().
		Given(pacttest.StateLeadsAccepted).
		UponReceiving("a generic enquiry lead").
		WithRequest(http.MethodPost, "/leads", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleLeadPayload())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":       matchers.Like(pacttest.LeadID),
				"leadType": matchers.S("GENERIC_ENQUIRY"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		client, err := backendclient.NewClient(fmt.Sprintf("http://%s:%d", host, config.Port), &http.Client{Timeout: 10 * time.Second})
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		auth, err := client.Login(ctx, backendclient.LoginRequest{Email: pacttest.UserEmail, Password: pacttest.UserPassword})
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if auth.User.ID == "" || auth.Tokens.Access.Token == "" {
			return fmt.Errorf("expected user and access token, got %+v", auth)
		}

		page, err := client.SearchPosts(ctx,
			backendclient.SearchPostsParams{SortBy: "createdAt:desc", Page: 1, Limit: 12},
			backendclient.SearchPostsBody{IsActive: true, PostType: "sell"},
		)
		if err != nil {
			return fmt.Errorf("search posts: %w", err)
		}
		if len(page.Results) == 0 || page.Results[0].ID == "" {
			return fmt.Errorf("expected at least one post, got %+v", page)
		}

		_, err = client.GetPost(ctx, "", pacttest.MissingPostID)
		var statusErr *backendclient.StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
			return fmt.Errorf("expected 404 for post %s, got %v", pacttest.MissingPostID, err)
		}

		lead, err := client.CreateLead(ctx, "", pacttest.ExampleLeadPayload())
		if err != nil {
			return fmt.Errorf("create lead: %w", err)
		}
		if lead["id"] == nil {
			return fmt.Errorf("expected lead id, got %+v", lead)
		}
		return nil
	})
	require.NoError(t, err)
}
