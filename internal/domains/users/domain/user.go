package domain

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// CookieName carries the access token for server-rendered requests.
	CookieName = "ps_access_token"
	// DefaultCookieMaxAge applies when the token expiry is missing or unparseable.
	DefaultCookieMaxAge = time.Hour
	// MaxCookieAge caps the cookie lifetime whatever the token says.
	MaxCookieAge = 7 * 24 * time.Hour
)

// Registration defaults mirrored from the marketplace sign-up form.
const (
	DefaultRole       = "user"
	DefaultSellerType = "individual"
)

// DefaultUserType is assigned when the registration names none.
var DefaultUserType = []string{"seller"}

var ErrEmptyToken = errors.New("accessToken required")

// User is the signed-in account as reported by the backend.
type User struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	UserType   []string `json:"userType,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	City       string   `json:"city,omitempty"`
	Country    string   `json:"country,omitempty"`
	SellerType string   `json:"sellerType,omitempty"`
}

// Token is a bearer token with the expiry timestamp the backend sent.
type Token struct {
	Value   string `json:"token"`
	Expires string `json:"expires"`
}

// Tokens groups the access and refresh tokens.
type Tokens struct {
	Access  Token `json:"access"`
	Refresh Token `json:"refresh"`
}

// Session is the persisted login state: the account plus its tokens.
type Session struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// AccessToken returns the bearer token used for backend calls.
func (s Session) AccessToken() string {
	return s.Tokens.Access.Value
}

// Known reports whether the session carries an account, not only a token.
func (s Session) Known() bool {
	return strings.TrimSpace(s.User.ID) != ""
}

// CookieMaxAge derives the cookie lifetime from an ISO-8601 expiry. A future expiry
// yields the remaining time in whole seconds capped at MaxCookieAge; anything else
// yields DefaultCookieMaxAge.
func CookieMaxAge(expires string, now time.Time) time.Duration {
	expires = strings.TrimSpace(expires)
	if expires == "" {
		return DefaultCookieMaxAge
	}
	at, ok := parseExpiry(expires)
	if !ok {
		return DefaultCookieMaxAge
	}
	remaining := at.Sub(now).Truncate(time.Second)
	if remaining <= 0 {
		return DefaultCookieMaxAge
	}
	if remaining > MaxCookieAge {
		return MaxCookieAge
	}
	return remaining
}

// expiryLayouts are tried in order. Date-only values mean midnight UTC.
var expiryLayouts = []string{time.RFC3339, time.DateOnly}

func parseExpiry(value string) (time.Time, bool) {
	for _, layout := range expiryLayouts {
		if at, err := time.Parse(layout, value); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}

// Cookie is the grant returned by a session sync.
type Cookie struct {
	Name   string
	Value  string
	MaxAge time.Duration
}

// NewCookie builds the cookie grant for token.
func NewCookie(token, expires string, now time.Time) (Cookie, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Cookie{}, ErrEmptyToken
	}
	return Cookie{Name: CookieName, Value: token, MaxAge: CookieMaxAge(expires, now)}, nil
}

// Credentials is a login attempt.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is a sign-up request. Coordinates are [longitude, latitude].
type Registration struct {
	Name        string      `json:"name" validate:"required,min=2"`
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=6"`
	Phone       string      `json:"phone"`
	City        string      `json:"city"`
	Country     string      `json:"country"`
	Pincode     string      `json:"pincode"`
	Role        string      `json:"role"`
	UserType    []string    `json:"userType"`
	SellerType  string      `json:"sellerType"`
	Coordinates *[2]float64 `json:"coordinates"`
}

// ApplyDefaults fills the role, user type and seller type when unset.
func (r *Registration) ApplyDefaults() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	if strings.TrimSpace(r.Role) == "" {
		r.Role = DefaultRole
	}
	if len(r.UserType) == 0 {
		r.UserType = append([]string(nil), DefaultUserType...)
	}
	if strings.TrimSpace(r.SellerType) == "" {
		r.SellerType = DefaultSellerType
	}
}

// FieldErrors maps a JSON field name to a user-facing message.
type FieldErrors map[string]string

var fieldMessages = map[string]map[string]string{
	"name":     {"required": "Name too short", "min": "Name too short"},
	"email":    {"required": "Invalid email", "email": "Invalid email"},
	"password": {"required": "Password required", "min": "Min 6 chars"},
}

// Validator checks login and registration input.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator that reports errors under JSON field names.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Check validates a Credentials or Registration value.
func (v *Validator) Check(input any) FieldErrors {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return FieldErrors{"_": err.Error()}
	}
	out := FieldErrors{}
	for _, fe := range invalid {
		msg := fieldMessages[fe.Field()][fe.Tag()]
		if msg == "" {
			msg = fe.Error()
		}
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = msg
		}
	}
	return out
}
