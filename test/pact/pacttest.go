//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "petsetu-backend"
	ConsumerName = "petsetu-web"

	StateUserExists    = "user pact.user@example.com exists"
	StatePostsExist    = "active sell posts exist"
	StatePostMissing   = "no post with id missing-post"
	StateLeadsAccepted = "leads are accepted"
)

const (
	UserEmail    = "pact.user@example.com"
	UserPassword = "pact-pass-123"
	UserID       = "64f0c2a1b2c3d4e5f6a7b8c9"

	ExistingPostID = "65a1b2c3d4e5f6a7b8c9d0e1"
	MissingPostID  = "missing-post"
	LeadID         = "65b2c3d4e5f6a7b8c9d0e1f2"

	exampleAccessToken = "pact-access-token"
	exampleExpires     = "2026-10-19T10:00:00.000Z"
	examplePhoto       = "posts/6f1c2e7a-pact.jpg"
	exampleCreatedAt   = "2026-10-01T08:30:00.000Z"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleAuthPayload is the login answer of the backend.
func ExampleAuthPayload() map[string]any {
	return map[string]any{
		"user": map[string]any{
			"id":       UserID,
			"name":     "Pact User",
			"email":    UserEmail,
			"role":     "user",
			"userType": []string{"buyer"},
		},
		"tokens": map[string]any{
			"access":  map[string]any{"token": exampleAccessToken, "expires": exampleExpires},
			"refresh": map[string]any{"token": "pact-refresh-token", "expires": exampleExpires},
		},
	}
}

// ExamplePostPayload is one active listing.
func ExamplePostPayload() map[string]any {
	return map[string]any{
		"_id":         ExistingPostID,
		"title":       "Playful beagle puppy",
		"photos":      []string{examplePhoto},
		"postType":    "sell",
		"isFeatured":  false,
		"isActive":    true,
		"isDeleted":   false,
		"city":        "Pune",
		"state":       "Maharashtra",
		"description": "Vaccinated and house trained",
		"createdAt":   exampleCreatedAt,
	}
}

// ExampleLeadPayload is a generic enquiry as sent by the contact form.
func ExampleLeadPayload() map[string]any {
	return map[string]any{
		"title":       "Website enquiry",
		"leadType":    "GENERIC_ENQUIRY",
		"description": "Do you deliver to Pune?",
		"source":      "web",
		"customerPersonalDetails": map[string]any{
			"name":  "Pact User",
			"email": UserEmail,
			"phone": "9876543210",
		},
		"customerAddressDetails": map[string]any{
			"address1": "Pune",
			"city":     "Pune",
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
