package backend

import "encoding/json"

// GeoPoint is a GeoJSON point; coordinates are [lng, lat].
type GeoPoint struct {
	Type        string     `json:"type,omitempty"`
	Coordinates [2]float64 `json:"coordinates"`
}

// AuthUser is the user record returned by the auth endpoints.
type AuthUser struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	UserType       []string  `json:"userType,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	City           string    `json:"city,omitempty"`
	Country        string    `json:"country,omitempty"`
	SellerType     string    `json:"sellerType,omitempty"`
	Pincode        *int      `json:"pincode,omitempty"`
	IsMailVerified bool      `json:"isMailVerified,omitempty"`
	IsActive       bool      `json:"isActive,omitempty"`
	Loc            *GeoPoint `json:"loc,omitempty"`
}

// Token is a bearer token with its expiry timestamp as sent by the backend.
type Token struct {
	Token   string `json:"token"`
	Expires string `json:"expires"`
}

// TokenPair groups the access and refresh tokens.
type TokenPair struct {
	Access  Token `json:"access"`
	Refresh Token `json:"refresh"`
}

// AuthResponse is the body of a successful login or registration.
type AuthResponse struct {
	User   AuthUser  `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	City       string    `json:"city,omitempty"`
	Country    string    `json:"country,omitempty"`
	Pincode    string    `json:"pincode,omitempty"`
	Role       string    `json:"role"`
	UserType   []string  `json:"userType"`
	SellerType string    `json:"sellerType"`
	Loc        *GeoPoint `json:"loc,omitempty"`
}

// Breed is one entry of the breed list.
type Breed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BreedList is the body of GET /pets/pet-breeds/{categoryId}.
type BreedList struct {
	Results []Breed `json:"results"`
}

// ListBreedsParams are the query parameters of the breed list.
type ListBreedsParams struct {
	Limit int
	Page  int
}

// SearchPostsParams are the query parameters of POST /post/get-posts.
type SearchPostsParams struct {
	SortBy string
	Page   int
	Limit  int
}

// SearchPostsBody is the filter body of POST /post/get-posts.
type SearchPostsBody struct {
	IsActive    bool     `json:"isActive"`
	PostType    string   `json:"postType"`
	Location    string   `json:"location,omitempty"`
	PetCategory []string `json:"petCategory,omitempty"`
}

// PetDetails is the embedded pet section of a post.
type PetDetails struct {
	IsVaccinationDone     *bool    `json:"isVaccinationDone,omitempty"`
	KnowEssentialCommands *bool    `json:"knowEssentialCommands,omitempty"`
	Age                   *float64 `json:"age,omitempty"`
	Name                  string   `json:"name,omitempty"`
	Sex                   string   `json:"sex,omitempty"`
	Weight                *float64 `json:"weight,omitempty"`
	BreedDetails          []struct {
		Name string `json:"name,omitempty"`
	} `json:"breedDetails,omitempty"`
}

// PetCategoryDetails names the category of a post.
type PetCategoryDetails struct {
	PetCategoryID string `json:"petCategoryId,omitempty"`
	PetCategory   string `json:"petCategory,omitempty"`
}

// OwnerDetails is the public contact of the post owner.
type OwnerDetails struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Post is a marketplace listing.
type Post struct {
	ID                 string              `json:"_id"`
	Photos             []string            `json:"photos"`
	PostType           string              `json:"postType"`
	IsFeatured         bool                `json:"isFeatured"`
	IsActive           bool                `json:"isActive"`
	IsDeleted          bool                `json:"isDeleted"`
	Address1           string              `json:"address1,omitempty"`
	Address2           string              `json:"address2,omitempty"`
	City               string              `json:"city,omitempty"`
	Country            string              `json:"country,omitempty"`
	Currency           string              `json:"currency,omitempty"`
	Description        string              `json:"description,omitempty"`
	Phone              string              `json:"phone,omitempty"`
	Pincode            json.RawMessage     `json:"pincode,omitempty"`
	Price              *float64            `json:"price,omitempty"`
	State              string              `json:"state,omitempty"`
	Title              string              `json:"title"`
	CreatedAt          string              `json:"createdAt,omitempty"`
	PetDetails         *PetDetails         `json:"petDetails,omitempty"`
	PetCategoryDetails *PetCategoryDetails `json:"petCategoryDetails,omitempty"`
	OwnerDetails       *OwnerDetails       `json:"ownerDetails,omitempty"`
	Loc                *GeoPoint           `json:"loc,omitempty"`
}

// PostsPage is the body of POST /post/get-posts.
type PostsPage struct {
	Results      []Post `json:"results"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
	TotalPages   int    `json:"totalPages"`
	TotalResults int    `json:"totalResults"`
}

// MediaFile is one file sent to POST /media/upload.
type MediaFile struct {
	Name        string
	ContentType string
	Data        []byte
}
