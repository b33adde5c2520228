package petsetuserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/petsetu/petsetu-web/internal/domains/users/adapters/http/mapper"
	usersapp "github.com/petsetu/petsetu-web/internal/domains/users/application"
	userdomain "github.com/petsetu/petsetu-web/internal/domains/users/domain"
	usersports "github.com/petsetu/petsetu-web/internal/domains/users/ports"
	apierrors "github.com/petsetu/petsetu-web/internal/shared/errors"
)

// sessionKey is the gin context key of the resolved *userdomain.Session.
const sessionKey = "petsetu.session"

// SessionAPI handles login, registration and the session cookie.
type SessionAPI struct {
	service      usersports.Service
	secureCookie bool
	now          func() time.Time
}

// NewSessionAPI creates a SessionAPI. secureCookie marks cookies Secure, as in production.
func NewSessionAPI(service usersports.Service, secureCookie bool) SessionAPI {
	return SessionAPI{service: service, secureCookie: secureCookie, now: time.Now}
}

// Middleware resolves the session cookie, or an Authorization bearer token,
// into the request context. Requests without a token pass through untouched.
func (api *SessionAPI) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if api.service == nil {
			c.Next()
			return
		}
		token := requestToken(c)
		if token == "" {
			c.Next()
			return
		}
		session, err := api.service.Resolve(c.Request.Context(), token)
		if err == nil && session != nil {
			c.Set(sessionKey, session)
		}
		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(userdomain.CookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// currentSession returns the session resolved by Middleware, if any.
func currentSession(c *gin.Context) *userdomain.Session {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := value.(*userdomain.Session)
	return session
}

// currentToken returns the caller's bearer token, or "".
func currentToken(c *gin.Context) string {
	if session := currentSession(c); session != nil {
		return session.AccessToken()
	}
	return ""
}

// Post /api/auth/login
// Exchanges credentials for a session and sets the session cookie
func (api *SessionAPI) Login(c *gin.Context) {
	var payload userhttpmapper.Login
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	session, err := api.service.Login(c.Request.Context(), userhttpmapper.ToCredentials(payload))
	if err != nil {
		respondSessionServiceError(c, err)
		return
	}
	api.grant(c, http.StatusOK, session)
}

// Post /api/auth/register
// Creates an account, then behaves like a login
func (api *SessionAPI) Register(c *gin.Context) {
	var payload userhttpmapper.Register
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	session, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegistration(payload))
	if err != nil {
		respondSessionServiceError(c, err)
		return
	}
	api.grant(c, http.StatusCreated, session)
}

func (api *SessionAPI) grant(c *gin.Context, status int, session *userdomain.Session) {
	cookie, err := userdomain.NewCookie(session.AccessToken(), session.Tokens.Access.Expires, api.clock())
	if err != nil {
		respondSessionServiceError(c, err)
		return
	}
	api.setCookie(c, cookie.Value, int(cookie.MaxAge.Seconds()))
	c.JSON(status, userhttpmapper.FromDomainSession(session))
}

// Get /api/auth/session
// Returns the signed-in account
func (api *SessionAPI) GetSession(c *gin.Context) {
	session := currentSession(c)
	if session == nil {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail(usersapp.ErrAuthRequired.Error()))
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainSession(session))
}

// Post /api/auth/session
// Stores the access token in an httpOnly cookie
func (api *SessionAPI) SyncSession(c *gin.Context) {
	var payload userhttpmapper.SessionSync
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	cookie, err := api.service.Sync(c.Request.Context(), payload.AccessToken, payload.Expires)
	if err != nil {
		respondSessionServiceError(c, err)
		return
	}
	api.setCookie(c, cookie.Value, int(cookie.MaxAge.Seconds()))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete /api/auth/session
// Clears the cookie and forgets the stored session
func (api *SessionAPI) ClearSession(c *gin.Context) {
	if err := api.service.Clear(c.Request.Context(), requestToken(c)); err != nil {
		respondSessionServiceError(c, err)
		return
	}
	api.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (api *SessionAPI) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(userdomain.CookieName, value, maxAge, "/", "", api.secureCookie, true)
}

func (api *SessionAPI) clock() time.Time {
	if api.now == nil {
		return time.Now()
	}
	return api.now()
}

func respondSessionServiceError(c *gin.Context, err error) {
	var verr *usersapp.ValidationError
	switch {
	case errors.As(err, &verr):
		respondProblem(c, apierrors.NewValidationProblem(verr.Fields))
	case errors.Is(err, usersapp.ErrInvalidInput), errors.Is(err, userdomain.ErrEmptyToken):
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, usersapp.ErrAuthentication), errors.Is(err, usersapp.ErrAuthRequired):
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
	case errors.Is(err, usersapp.ErrConfiguration):
		respondProblem(c, apierrors.ErrNotConfigured.WithDetail(err.Error()))
	case errors.Is(err, usersports.ErrUpstreamTimeout):
		respondProblem(c, apierrors.ErrUpstreamTimeout.WithDetail(err.Error()))
	case errors.Is(err, usersports.ErrUpstream):
		respondProblem(c, apierrors.ErrUpstream.WithDetail(err.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
