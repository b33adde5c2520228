package domain

import (
	"errors"
	"sort"
	"strings"
)

// CategoryKey is the user-facing pet category selected on the first step.
type CategoryKey string

const (
	CategoryDog   CategoryKey = "dog"
	CategoryCat   CategoryKey = "cat"
	CategoryBunny CategoryKey = "bunny"
	// CategoryRabbit is accepted as an alias of bunny when filtering listings.
	CategoryRabbit CategoryKey = "rabbit"
)

var categoryIDs = map[CategoryKey]string{
	CategoryDog:    "604b2158e256ed891404ca5c",
	CategoryCat:    "604b21b6e256ed891404ca8a",
	CategoryBunny:  "604b21c4e256ed891404ca92",
	CategoryRabbit: "604b21c4e256ed891404ca92",
}

// CategoryID resolves the backend identifier for a category key.
func CategoryID(key CategoryKey) (string, bool) {
	id, ok := categoryIDs[CategoryKey(strings.ToLower(strings.TrimSpace(string(key))))]
	return id, ok
}

// AllCategoryIDs returns every distinct backend category identifier in a stable order.
func AllCategoryIDs() []string {
	seen := make(map[string]struct{}, len(categoryIDs))
	ids := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PostType describes what the advertiser intends to do with the pet.
type PostType string

const (
	PostTypeBreed PostType = "breed"
	PostTypeSell  PostType = "sell"
	PostTypeAdopt PostType = "adopt"
)

// Currencies lists the currency codes accepted for sell adverts.
var Currencies = []string{"AED", "INR", "USD", "EUR", "SAR"}

// Step is the index of the active form step.
type Step int

const (
	StepPet Step = iota
	StepBreed
	StepDetails
)

const (
	FirstStep = StepPet
	LastStep  = StepDetails
)

// Values holds every field of an advert draft. JSON names match the backend payload.
type Values struct {
	PetCategoryKey        CategoryKey `json:"petCategoryKey" validate:"required,oneof=dog cat bunny"`
	Name                  string      `json:"name" validate:"required"`
	Sex                   string      `json:"sex" validate:"required,oneof=m f"`
	Age                   int         `json:"age" validate:"min=0,max=600"`
	Weight                *float64    `json:"weight,omitempty" validate:"omitempty,min=0,max=200"`
	IsVaccinationDone     bool        `json:"isVaccinationDone"`
	KnowEssentialCommands bool        `json:"knowEssentialCommands"`

	IsNewBreed   bool   `json:"isNewBreed"`
	PetBreed     string `json:"petBreed"`
	NewBreedName string `json:"newBreedName"`

	Title       string   `json:"title" validate:"min=3"`
	Description string   `json:"description" validate:"min=10"`
	Phone       string   `json:"phone" validate:"min=8"`
	Address1    string   `json:"address1" validate:"required"`
	Address2    string   `json:"address2"`
	City        string   `json:"city" validate:"required"`
	State       string   `json:"state" validate:"required"`
	Country     string   `json:"country" validate:"required"`
	Pincode     string   `json:"pincode" validate:"min=2"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	Currency    string   `json:"currency,omitempty" validate:"omitempty,oneof=AED INR USD EUR SAR"`
	PostType    PostType `json:"postType" validate:"required,oneof=breed sell adopt"`
}

// DefaultValues returns the values a new draft starts from.
func DefaultValues() Values {
	return Values{
		PetCategoryKey: CategoryDog,
		Sex:            "m",
		Country:        "India",
		PostType:       PostTypeAdopt,
	}
}

// NormalizeBreed clears whichever breed field is inactive for the current toggle.
func (v *Values) NormalizeBreed() {
	if v.IsNewBreed {
		v.PetBreed = ""
		return
	}
	v.NewBreedName = ""
}

// IsSell reports whether price and currency apply.
func (v Values) IsSell() bool {
	return v.PostType == PostTypeSell
}

// HasCoordinates reports whether both latitude and longitude are set.
func (v Values) HasCoordinates() bool {
	return v.Latitude != nil && v.Longitude != nil
}

// Breed is an entry of the backend breed catalog.
type Breed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AddressSuggestion is a geocoding candidate. X is longitude and Y latitude.
type AddressSuggestion struct {
	Address string   `json:"address"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
}

// City returns the first comma-delimited token of the address.
func (s AddressSuggestion) City() string {
	first, _, _ := strings.Cut(s.Address, ",")
	return strings.TrimSpace(first)
}

// MediaFile is a user-selected local file awaiting upload.
type MediaFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadedMedia pairs the server identifier of an uploaded file with its local preview handle.
type UploadedMedia struct {
	RemoteFileName string `json:"fileName"`
	PreviewHandle  string `json:"previewHandle"`
}

// Author identifies the signed-in user submitting the advert.
type Author struct {
	UserID     string
	Token      string
	SellerType string
}

// Authenticated reports whether the author carries both a token and a user id.
func (a Author) Authenticated() bool {
	return strings.TrimSpace(a.Token) != "" && strings.TrimSpace(a.UserID) != ""
}

var (
	ErrUnknownCategory = errors.New("unknown pet category")
	ErrUnknownField    = errors.New("unknown advert field")
)
