package petsetuserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	advertsapp "github.com/petsetu/petsetu-web/internal/domains/adverts/application"
	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	advertdomain "github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	advertsports "github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
	leadsapp "github.com/petsetu/petsetu-web/internal/domains/leads/application"
	leaddomain "github.com/petsetu/petsetu-web/internal/domains/leads/domain"
	listingsmemory "github.com/petsetu/petsetu-web/internal/domains/listings/adapters/memory"
	listingsapp "github.com/petsetu/petsetu-web/internal/domains/listings/application"
	listingdomain "github.com/petsetu/petsetu-web/internal/domains/listings/domain"
	usersmemory "github.com/petsetu/petsetu-web/internal/domains/users/adapters/memory"
	usersapp "github.com/petsetu/petsetu-web/internal/domains/users/application"
	userdomain "github.com/petsetu/petsetu-web/internal/domains/users/domain"
	usersports "github.com/petsetu/petsetu-web/internal/domains/users/ports"
	"github.com/petsetu/petsetu-web/internal/platform/health"
	apierrors "github.com/petsetu/petsetu-web/internal/shared/errors"
)

type fakeAuthenticator struct{}

func (fakeAuthenticator) Login(_ context.Context, c userdomain.Credentials) (*userdomain.Session, error) {
	if c.Password != "secret" {
		return nil, usersports.ErrInvalidCredentials
	}
	return &userdomain.Session{
		User: userdomain.User{ID: "u1", Name: "Asha", Email: c.Email, SellerType: "individual"},
		Tokens: userdomain.Tokens{
			Access:  userdomain.Token{Value: "acc-1", Expires: "2099-01-01T00:00:00Z"},
			Refresh: userdomain.Token{Value: "ref-1", Expires: "2099-02-01T00:00:00Z"},
		},
	}, nil
}

func (fakeAuthenticator) Register(ctx context.Context, r userdomain.Registration) (*userdomain.Session, error) {
	return fakeAuthenticator{}.Login(ctx, userdomain.Credentials{Email: r.Email, Password: "secret"})
}

type stubAdverts struct {
	advertsports.Service
	authors   []advertdomain.Author
	submitErr error
}

func (s *stubAdverts) CreateDraft(_ context.Context, author advertdomain.Author) (*adverttypes.DraftView, error) {
	s.authors = append(s.authors, author)
	if !author.Authenticated() {
		return nil, advertsapp.ErrAuthRequired
	}
	return &adverttypes.DraftView{ID: "d1", Phase: adverttypes.PhaseEditing}, nil
}

func (s *stubAdverts) GetDraft(_ context.Context, ref adverttypes.DraftRef) (*adverttypes.DraftView, error) {
	if ref.DraftID != "d1" {
		return nil, advertsports.ErrDraftNotFound
	}
	return &adverttypes.DraftView{ID: "d1", Phase: adverttypes.PhaseEditing, Notices: []string{"Failed to post: boom"}}, nil
}

func (s *stubAdverts) Submit(context.Context, adverttypes.DraftRef) (*adverttypes.SubmissionResult, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &adverttypes.SubmissionResult{PostID: "p9", Location: "/post/p9"}, nil
}

func (s *stubAdverts) UploadMedia(_ context.Context, _ adverttypes.DraftRef, files []advertdomain.MediaFile) (*adverttypes.UploadReport, error) {
	report := &adverttypes.UploadReport{}
	for i, f := range files {
		report.Added = append(report.Added, advertdomain.UploadedMedia{RemoteFileName: f.Name, PreviewHandle: "h" + string(rune('0'+i))})
	}
	return report, nil
}

func (s *stubAdverts) Preview(_ context.Context, handle string) (*advertsports.Preview, error) {
	if handle != "h0" {
		return nil, advertsports.ErrPreviewNotFound
	}
	return &advertsports.Preview{Handle: handle, ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}, nil
}

type fakeLeadGateway struct{ tokens []string }

func (f *fakeLeadGateway) Submit(_ context.Context, token string, lead leaddomain.Lead) (*leaddomain.Receipt, error) {
	f.tokens = append(f.tokens, token)
	return &leaddomain.Receipt{ID: "l1"}, nil
}

type fakeProber struct {
	report health.Report
	err    error
}

func (f fakeProber) Probe(context.Context) (health.Report, error) { return f.report, f.err }

type testServer struct {
	router   *gin.Engine
	adverts  *stubAdverts
	catalog  *listingsmemory.Catalog
	leads    *fakeLeadGateway
	handlers ApiHandleFunctions
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ts := &testServer{adverts: &stubAdverts{}, catalog: listingsmemory.NewCatalog(), leads: &fakeLeadGateway{}}
	listings := listingsapp.NewService(ts.catalog, listingsapp.WithSiteURL("https://petsetu.com"))
	ts.handlers = ApiHandleFunctions{
		AdvertAPI:  NewAdvertAPI(ts.adverts),
		SessionAPI: NewSessionAPI(usersapp.NewService(fakeAuthenticator{}, usersmemory.NewSessionStore()), true),
		ListingAPI: NewListingAPI(listings, "https://images.petsetu.com"),
		LeadAPI:    NewLeadAPI(leadsapp.NewService(ts.leads)),
		SiteAPI:    NewSiteAPI(listings),
		HealthAPI:  NewHealthAPI(fakeProber{report: health.Report{OK: true, Status: 200, StatusText: "OK"}}),
	}
	ts.router = NewRouterWithGinEngine(gin.New(), ts.handlers)
	return ts
}

func (ts *testServer) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == userdomain.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", userdomain.CookieName)
	return nil
}

func TestSessionAPI_LoginSetsCookieAndResolves(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "asha@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	require.Equal(t, "acc-1", cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	rec = ts.do(http.MethodGet, "/api/auth/session", nil, &http.Cookie{Name: userdomain.CookieName, Value: "acc-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":"u1"`)

	rec = ts.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "asha@example.com", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "asha"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decodeProblem(t, rec).Extensions["fields"], "email")
}

func TestSessionAPI_SyncAndClear(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/auth/session", map[string]string{"expires": "2099-01-01T00:00:00Z"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/auth/session", map[string]string{"accessToken": "tok", "expires": "not a date"})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	require.Equal(t, "tok", cookie.Value)
	require.Equal(t, 3600, cookie.MaxAge)

	rec = ts.do(http.MethodDelete, "/api/auth/session", nil, &http.Cookie{Name: userdomain.CookieName, Value: "tok"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestAdvertAPI_RequiresKnownSession(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/drafts", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, apierrors.TypeUnauthorized, decodeProblem(t, rec).Type)

	login := ts.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "asha@example.com", "password": "secret"})
	rec = ts.do(http.MethodPost, "/api/drafts", nil, sessionCookie(t, login))
	require.Equal(t, http.StatusCreated, rec.Code)
	last := ts.adverts.authors[len(ts.adverts.authors)-1]
	require.Equal(t, advertdomain.Author{UserID: "u1", Token: "acc-1", SellerType: "individual"}, last)
}

func TestAdvertAPI_SubmitFailureReturnsDraft(t *testing.T) {
	ts := newTestServer(t)
	ts.adverts.submitErr = advertsports.ErrUpstreamTimeout

	rec := ts.do(http.MethodPost, "/api/drafts/d1/submit", nil)
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	problem := decodeProblem(t, rec)
	draft, ok := problem.Extensions["draft"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "d1", draft["id"])

	ts.adverts.submitErr = nil
	rec = ts.do(http.MethodPost, "/api/drafts/d1/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "/post/p9", rec.Header().Get("Location"))
	require.JSONEq(t, `{"postId":"p9","location":"/post/p9"}`, rec.Body.String())
}

func TestAdvertAPI_UploadAndPreview(t *testing.T) {
	ts := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "dog.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/drafts/d1/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"previewUrl":"/previews/h0"`)

	rec = ts.do(http.MethodGet, "/previews/h0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = ts.do(http.MethodGet, "/previews/gone", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/drafts/d1/media/x", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListingAPI(t *testing.T) {
	ts := newTestServer(t)
	dog, _ := advertdomain.CategoryID(advertdomain.CategoryDog)
	require.NoError(t, ts.catalog.Save(context.Background(), listingdomain.Post{
		ID: "p1", Title: "Lab", PostType: "sell", CategoryID: dog, IsActive: true, Photos: []string{"posts/a.jpg"},
		CreatedAt: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
	}))

	rec := ts.do(http.MethodGet, "/api/posts?category=dog&postType=sell", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"https://images.petsetu.com/posts/a.jpg"`)
	require.Contains(t, rec.Body.String(), `"totalResults":1`)

	rec = ts.do(http.MethodGet, "/api/posts?category=parrot", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/posts/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/sitemap.xml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/xml"))
	require.Contains(t, rec.Body.String(), "<loc>https://petsetu.com/post/p1</loc>")

	rec = ts.do(http.MethodGet, "/robots.txt", nil)
	require.Equal(t, "User-Agent: *\nAllow: /\n\nSitemap: https://petsetu.com/sitemap.xml\n", rec.Body.String())
}

func TestLeadAPI(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/contact", map[string]string{"name": "R"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields, ok := decodeProblem(t, rec).Extensions["fields"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Please enter your name", fields["name"])

	rec = ts.do(http.MethodPost, "/api/contact",
		map[string]string{"name": "Ravi", "email": "ravi@example.com", "phone": "12345", "message": "Hello there"},
		&http.Cookie{Name: userdomain.CookieName, Value: "tok"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"id":"l1","leadType":"GENERIC_ENQUIRY"}`, rec.Body.String())
	require.Equal(t, []string{"tok"}, ts.leads.tokens)
}

func TestHealthAPI(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/api/cron/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ok":true`)

	ts.handlers.HealthAPI = NewHealthAPI(fakeProber{report: health.Report{Status: 504, StatusText: health.TimeoutText}})
	router := NewRouterWithGinEngine(gin.New(), ts.handlers)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cron/health", nil))
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)

	ts.handlers.HealthAPI = NewHealthAPI(fakeProber{err: health.ErrNotConfigured})
	router = NewRouterWithGinEngine(gin.New(), ts.handlers)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cron/health", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
