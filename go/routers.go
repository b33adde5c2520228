package petsetuserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the session middleware and every route to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.Use(handleFunctions.SessionAPI.Middleware())
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the AdvertAPI part of the API
	AdvertAPI AdvertAPI
	// Routes for the SessionAPI part of the API
	SessionAPI SessionAPI
	// Routes for the ListingAPI part of the API
	ListingAPI ListingAPI
	// Routes for the LeadAPI part of the API
	LeadAPI LeadAPI
	// Routes for the SiteAPI part of the API
	SiteAPI SiteAPI
	// Routes for the HealthAPI part of the API
	HealthAPI HealthAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"CreateDraft", http.MethodPost, "/api/drafts", handleFunctions.AdvertAPI.CreateDraft},
		{"GetDraft", http.MethodGet, "/api/drafts/:draftId", handleFunctions.AdvertAPI.GetDraft},
		{"PatchDraft", http.MethodPatch, "/api/drafts/:draftId", handleFunctions.AdvertAPI.PatchDraft},
		{"DiscardDraft", http.MethodDelete, "/api/drafts/:draftId", handleFunctions.AdvertAPI.DiscardDraft},
		{"AdvanceDraft", http.MethodPost, "/api/drafts/:draftId/next", handleFunctions.AdvertAPI.AdvanceDraft},
		{"RetreatDraft", http.MethodPost, "/api/drafts/:draftId/back", handleFunctions.AdvertAPI.RetreatDraft},
		{"ListBreeds", http.MethodGet, "/api/drafts/:draftId/breeds", handleFunctions.AdvertAPI.ListBreeds},
		{"SuggestAddress", http.MethodGet, "/api/drafts/:draftId/address", handleFunctions.AdvertAPI.SuggestAddress},
		{"SelectAddress", http.MethodPost, "/api/drafts/:draftId/address/select", handleFunctions.AdvertAPI.SelectAddress},
		{"UploadMedia", http.MethodPost, "/api/drafts/:draftId/media", handleFunctions.AdvertAPI.UploadMedia},
		{"RemoveMedia", http.MethodDelete, "/api/drafts/:draftId/media/:index", handleFunctions.AdvertAPI.RemoveMedia},
		{"SubmitDraft", http.MethodPost, "/api/drafts/:draftId/submit", handleFunctions.AdvertAPI.SubmitDraft},
		{"GetPreview", http.MethodGet, "/previews/:handle", handleFunctions.AdvertAPI.GetPreview},

		{"Login", http.MethodPost, "/api/auth/login", handleFunctions.SessionAPI.Login},
		{"Register", http.MethodPost, "/api/auth/register", handleFunctions.SessionAPI.Register},
		{"GetSession", http.MethodGet, "/api/auth/session", handleFunctions.SessionAPI.GetSession},
		{"SyncSession", http.MethodPost, "/api/auth/session", handleFunctions.SessionAPI.SyncSession},
		{"ClearSession", http.MethodDelete, "/api/auth/session", handleFunctions.SessionAPI.ClearSession},

		{"SearchPosts", http.MethodGet, "/api/posts", handleFunctions.ListingAPI.SearchPosts},
		{"GetPost", http.MethodGet, "/api/posts/:postId", handleFunctions.ListingAPI.GetPost},

		{"SubmitRequirement", http.MethodPost, "/api/leads", handleFunctions.LeadAPI.SubmitRequirement},
		{"SubmitEnquiry", http.MethodPost, "/api/contact", handleFunctions.LeadAPI.SubmitEnquiry},

		{"Sitemap", http.MethodGet, "/sitemap.xml", handleFunctions.SiteAPI.Sitemap},
		{"Robots", http.MethodGet, "/robots.txt", handleFunctions.SiteAPI.Robots},

		{"CheckHealth", http.MethodGet, "/api/cron/health", handleFunctions.HealthAPI.CheckHealth},
		{"CheckHealthPost", http.MethodPost, "/api/cron/health", handleFunctions.HealthAPI.CheckHealth},
	}
}
