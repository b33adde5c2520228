package mapper

import (
	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
)

// Login is the body of a login request.
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register is the body of a sign-up request. Coordinates are [longitude, latitude].
type Register struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Phone       string      `json:"phone,omitempty"`
	City        string      `json:"city,omitempty"`
	Country     string      `json:"country,omitempty"`
	Pincode     string      `json:"pincode,omitempty"`
	Role        string      `json:"role,omitempty"`
	UserType    []string    `json:"userType,omitempty"`
	SellerType  string      `json:"sellerType,omitempty"`
	Coordinates *[2]float64 `json:"coordinates,omitempty"`
}

// SessionSync is the body of a cookie sync.
type SessionSync struct {
	AccessToken string `json:"accessToken"`
	Expires     string `json:"expires"`
}

// User represents the transport-level account.
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

// Token mirrors the backend token shape.
type Token struct {
	Token   string `json:"token"`
	Expires string `json:"expires"`
}

// Session is returned by login and registration so the browser can keep its own copy.
type Session struct {
	User   User `json:"user"`
	Tokens struct {
		Access  Token `json:"access"`
		Refresh Token `json:"refresh"`
	} `json:"tokens"`
}

// ToCredentials converts a login body.
func ToCredentials(in Login) domain.Credentials {
	return domain.Credentials{Email: in.Email, Password: in.Password}
}

// ToRegistration converts a sign-up body.
func ToRegistration(in Register) domain.Registration {
	return domain.Registration{
		Name:        in.Name,
		Email:       in.Email,
		Password:    in.Password,
		Phone:       in.Phone,
		City:        in.City,
		Country:     in.Country,
		Pincode:     in.Pincode,
		Role:        in.Role,
		UserType:    append([]string(nil), in.UserType...),
		SellerType:  in.SellerType,
		Coordinates: in.Coordinates,
	}
}

// FromDomainSession converts a session into its transport representation.
func FromDomainSession(session *domain.Session) Session {
	var out Session
	if session == nil {
		return out
	}
	u := session.User
	out.User = User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		UserType:   append([]string(nil), u.UserType...),
		Phone:      u.Phone,
		City:       u.City,
		Country:    u.Country,
		SellerType: u.SellerType,
	}
	out.Tokens.Access = Token{Token: session.Tokens.Access.Value, Expires: session.Tokens.Access.Expires}
	out.Tokens.Refresh = Token{Token: session.Tokens.Refresh.Value, Expires: session.Tokens.Refresh.Expires}
	return out
}
