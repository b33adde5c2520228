package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SourceWeb tags posts created through the web frontend.
const SourceWeb = "web"

// GeoPoint is a GeoJSON point; Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// CreatePostPayload is the body sent to the backend's combined create endpoint.
type CreatePostPayload struct {
	Name                  string   `json:"name"`
	Age                   int      `json:"age"`
	Sex                   string   `json:"sex"`
	Weight                *float64 `json:"weight,omitempty"`
	IsVaccinationDone     bool     `json:"isVaccinationDone"`
	KnowEssentialCommands bool     `json:"knowEssentialCommands"`
	PetCategory           string   `json:"petCategory"`
	IsNewBreed            bool     `json:"isNewBreed"`
	NewBreedName          string   `json:"newBreedName,omitempty"`
	PetBreed              string   `json:"petBreed,omitempty"`

	Title       string    `json:"title"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	Address1    string    `json:"address1"`
	Address2    string    `json:"address2,omitempty"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	Pincode     string    `json:"pincode"`
	Loc         *GeoPoint `json:"loc,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	PostType    PostType  `json:"postType"`
	Photos      []string  `json:"photos,omitempty"`

	OwnerID    string `json:"ownerId"`
	PostedBy   string `json:"postedBy"`
	SellerType string `json:"sellerType,omitempty"`
	Source     string `json:"source"`
}

// BuildPayload assembles the create-post body. Breed fields are mutually exclusive,
// loc requires both coordinates, price and currency are sent for sell adverts only,
// and photos are omitted when empty.
func BuildPayload(values Values, photos []string, author Author) (CreatePostPayload, error) {
	categoryID, ok := CategoryID(values.PetCategoryKey)
	if !ok {
		return CreatePostPayload{}, fmt.Errorf("%w: %q", ErrUnknownCategory, values.PetCategoryKey)
	}
	payload := CreatePostPayload{
		Name:                  values.Name,
		Age:                   values.Age,
		Sex:                   values.Sex,
		Weight:                values.Weight,
		IsVaccinationDone:     values.IsVaccinationDone,
		KnowEssentialCommands: values.KnowEssentialCommands,
		PetCategory:           categoryID,
		IsNewBreed:            values.IsNewBreed,
		Title:                 values.Title,
		Description:           values.Description,
		Phone:                 values.Phone,
		Address1:              values.Address1,
		Address2:              values.Address2,
		City:                  values.City,
		State:                 values.State,
		Country:               values.Country,
		Pincode:               values.Pincode,
		PostType:              values.PostType,
		OwnerID:               author.UserID,
		PostedBy:              author.UserID,
		SellerType:            strings.TrimSpace(author.SellerType),
		Source:                SourceWeb,
	}
	if values.IsNewBreed {
		payload.NewBreedName = strings.TrimSpace(values.NewBreedName)
	} else {
		payload.PetBreed = values.PetBreed
	}
	if values.HasCoordinates() {
		payload.Loc = &GeoPoint{Type: "Point", Coordinates: [2]float64{*values.Longitude, *values.Latitude}}
	}
	if values.IsSell() {
		price := *values.Price
		payload.Price = &price
		payload.Currency = values.Currency
	}
	if len(photos) > 0 {
		payload.Photos = append([]string(nil), photos...)
	}
	return payload, nil
}

// Extractor reads one candidate value out of a decoded JSON response.
type Extractor func(body map[string]any) (string, bool)

// PostIDExtractors are tried in order against a create-post response:
// post.id, post._id, id, _id.
var PostIDExtractors = []Extractor{
	nestedString("post", "id"),
	nestedString("post", "_id"),
	nestedString("id"),
	nestedString("_id"),
}

// MediaIdentifierExtractors are tried in order against a media-upload response.
// The first non-empty of url, fileUrl and Location wins when it is absolute;
// otherwise the bare fileName is used.
var MediaIdentifierExtractors = []Extractor{
	absoluteURL("url", "fileUrl", "Location"),
	nestedString("fileName"),
}

// ExtractPostID returns the post identifier of a create response.
func ExtractPostID(body map[string]any) (string, bool) {
	return firstMatch(body, PostIDExtractors)
}

// ExtractMediaIdentifier returns the identifier to store for an uploaded file.
func ExtractMediaIdentifier(body map[string]any) (string, bool) {
	return firstMatch(body, MediaIdentifierExtractors)
}

func firstMatch(body map[string]any, extractors []Extractor) (string, bool) {
	if body == nil {
		return "", false
	}
	for _, extract := range extractors {
		if value, ok := extract(body); ok {
			return value, true
		}
	}
	return "", false
}

func nestedString(path ...string) Extractor {
	return func(body map[string]any) (string, bool) {
		var current any = body
		for _, key := range path {
			obj, ok := current.(map[string]any)
			if !ok {
				return "", false
			}
			current = obj[key]
		}
		return stringValue(current)
	}
}

func absoluteURL(keys ...string) Extractor {
	return func(body map[string]any) (string, bool) {
		for _, key := range keys {
			value, ok := stringValue(body[key])
			if !ok {
				continue
			}
			if strings.HasPrefix(value, "http") {
				return value, true
			}
			return "", false
		}
		return "", false
	}
}

func stringValue(v any) (string, bool) {
	switch typed := v.(type) {
	case string:
		if strings.TrimSpace(typed) == "" {
			return "", false
		}
		return typed, true
	case float64:
		if typed == 0 {
			return "", false
		}
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	default:
		return "", false
	}
}

// ImageURL builds a displayable URL for a stored media path. Absolute http(s)
// URLs are returned unchanged; relative paths are joined to base with every
// segment escaped.
func ImageURL(base, path string) string {
	if path == "" {
		return ""
	}
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return path
	}
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(segments, "/")
}
