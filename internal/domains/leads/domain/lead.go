package domain

import (
	"errors"
	"html"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Lead types understood by the backend.
const (
	TypeRequirement = "POST_NEW_REQUIREMENT"
	TypeEnquiry     = "GENERIC_ENQUIRY"
)

const (
	// EnquiryTitle is the fixed title of contact enquiries.
	EnquiryTitle = "Contact us - General enquiry"
	// EnquirySource marks enquiries sent from the website.
	EnquirySource = "web"
	// DefaultCountry fills an empty requirement country.
	DefaultCountry = "India"
	// DefaultRequirementType fills an empty requirement type.
	DefaultRequirementType = "adopt"
)

var ErrInvalidPincode = errors.New("pincode must be numeric")

// Requirement is a buyer's "looking for a pet" request.
type Requirement struct {
	Title           string `json:"title" validate:"min=3"`
	Description     string `json:"description" validate:"min=10"`
	Name            string `json:"name" validate:"min=2"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"min=8"`
	Age             string `json:"age"`
	Gender          string `json:"gender" validate:"omitempty,oneof=m f o"`
	Address1        string `json:"address1"`
	Address2        string `json:"address2"`
	City            string `json:"city" validate:"min=2"`
	State           string `json:"state" validate:"min=2"`
	Country         string `json:"country" validate:"min=2"`
	Pincode         string `json:"pincode" validate:"omitempty,numeric"`
	Latitude        string `json:"lat"`
	Longitude       string `json:"lng"`
	PetType         string `json:"petType" validate:"min=2"`
	RequirementType string `json:"requirementType" validate:"oneof=adopt sell breed lost found"`
}

// Normalize trims every field and applies defaults.
func (r *Requirement) Normalize() {
	for _, f := range []*string{&r.Title, &r.Description, &r.Name, &r.Email, &r.Phone, &r.Age, &r.Gender,
		&r.Address1, &r.Address2, &r.City, &r.State, &r.Country, &r.Pincode, &r.Latitude, &r.Longitude,
		&r.PetType, &r.RequirementType} {
		*f = strings.TrimSpace(*f)
	}
	if r.Country == "" {
		r.Country = DefaultCountry
	}
	if r.RequirementType == "" {
		r.RequirementType = DefaultRequirementType
	}
}

// Enquiry is a contact-us message.
type Enquiry struct {
	Name      string   `json:"name" validate:"min=2"`
	Email     string   `json:"email" validate:"required,email"`
	Phone     string   `json:"phone" validate:"min=5"`
	Message   string   `json:"message" validate:"min=5"`
	Query     string   `json:"addressQuery"`
	Address1  string   `json:"address1"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
}

// Normalize trims every text field.
func (e *Enquiry) Normalize() {
	for _, f := range []*string{&e.Name, &e.Email, &e.Phone, &e.Message, &e.Query, &e.Address1, &e.City} {
		*f = strings.TrimSpace(*f)
	}
}

// Point is a GeoJSON point. Coordinates are [longitude, latitude].
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// PersonalDetails identifies the customer.
type PersonalDetails struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Age    string `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// AddressDetails locates the customer.
type AddressDetails struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country,omitempty"`
	Pincode  *int   `json:"pincode,omitempty"`
	Loc      *Point `json:"loc,omitempty"`
}

// AdditionalDetails qualifies a requirement.
type AdditionalDetails struct {
	PetType         string `json:"petType"`
	RequirementType string `json:"requirementType"`
}

// Lead is the payload of POST /leads.
type Lead struct {
	Title             string             `json:"title"`
	LeadType          string             `json:"leadType"`
	Description       string             `json:"description"`
	Source            string             `json:"source,omitempty"`
	PersonalDetails   PersonalDetails    `json:"customerPersonalDetails"`
	AddressDetails    AddressDetails     `json:"customerAddressDetails"`
	AdditionalDetails *AdditionalDetails `json:"leadAdditionalDetails,omitempty"`
}

// Receipt acknowledges a forwarded lead.
type Receipt struct {
	ID       string
	LeadType string
}

// NewRequirementLead builds the backend payload of a validated requirement.
// The location is attached only when both coordinates parse.
func NewRequirementLead(r Requirement, clean *Sanitizer) (Lead, error) {
	lead := Lead{
		Title:       clean.Text(r.Title),
		LeadType:    TypeRequirement,
		Description: clean.Text(r.Description),
		PersonalDetails: PersonalDetails{
			Name:   clean.Text(r.Name),
			Email:  r.Email,
			Phone:  r.Phone,
			Age:    r.Age,
			Gender: r.Gender,
		},
		AddressDetails: AddressDetails{
			Address1: clean.Text(r.Address1),
			Address2: clean.Text(r.Address2),
			City:     clean.Text(r.City),
			State:    clean.Text(r.State),
			Country:  clean.Text(r.Country),
		},
		AdditionalDetails: &AdditionalDetails{PetType: clean.Text(r.PetType), RequirementType: r.RequirementType},
	}
	if r.Pincode != "" {
		pin, err := strconv.Atoi(r.Pincode)
		if err != nil {
			return Lead{}, ErrInvalidPincode
		}
		lead.AddressDetails.Pincode = &pin
	}
	if r.Latitude != "" && r.Longitude != "" {
		lat, latErr := strconv.ParseFloat(r.Latitude, 64)
		lng, lngErr := strconv.ParseFloat(r.Longitude, 64)
		if latErr == nil && lngErr == nil {
			lead.AddressDetails.Loc = &Point{Type: "Point", Coordinates: [2]float64{lng, lat}}
		}
	}
	return lead, nil
}

// NewEnquiryLead builds the backend payload of a validated contact enquiry.
// Address and city fall back to the free-text address query.
func NewEnquiryLead(e Enquiry, clean *Sanitizer) Lead {
	address1 := e.Address1
	if address1 == "" {
		address1 = e.Query
	}
	city := e.City
	if city == "" {
		city = e.Query
	}
	lead := Lead{
		Title:       EnquiryTitle,
		LeadType:    TypeEnquiry,
		Description: clean.Text(e.Message),
		Source:      EnquirySource,
		PersonalDetails: PersonalDetails{
			Name:  clean.Text(e.Name),
			Email: e.Email,
			Phone: e.Phone,
		},
		AddressDetails: AddressDetails{Address1: clean.Text(address1), City: clean.Text(city)},
	}
	if e.Latitude != nil && e.Longitude != nil {
		lead.AddressDetails.Loc = &Point{Type: "Point", Coordinates: [2]float64{*e.Longitude, *e.Latitude}}
	}
	return lead
}

// Sanitizer strips markup from free text.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

const maxSanitizePasses = 8

// Text removes every HTML element from in and returns decoded text. Sanitizing
// and decoding repeat until the text is stable, so entity-encoded markup cannot
// come back as live markup. Text that never settles stays entity-encoded.
func (s *Sanitizer) Text(in string) string {
	if s == nil || in == "" {
		return in
	}
	out := in
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(s.policy.Sanitize(out))
		if next == out {
			return strings.TrimSpace(out)
		}
		out = next
	}
	return strings.TrimSpace(s.policy.Sanitize(out))
}

// FieldErrors maps a JSON field name to a user-facing message.
type FieldErrors map[string]string

var fieldMessages = map[string]string{
	"title":           "Title is required",
	"description":     "Please add a brief description",
	"name":            "Name is required",
	"email":           "Enter a valid email",
	"phone":           "Enter a valid phone number",
	"gender":          "Select a valid gender",
	"city":            "City is required",
	"state":           "State is required",
	"country":         "Country is required",
	"pincode":         "Enter a valid pincode",
	"petType":         "Pet type is required",
	"requirementType": "Select a requirement type",
	"message":         "Please add a brief message",
}

// Validator checks requirement and enquiry input.
type Validator struct {
	validate *validator.Validate
}

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

// Check validates a Requirement or Enquiry value.
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
		msg := fieldMessages[fe.Field()]
		if msg == "" {
			msg = fe.Error()
		}
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = msg
		}
	}
	// A short contact name reads differently on the contact form.
	if _, ok := input.(Enquiry); ok {
		if _, bad := out["name"]; bad {
			out["name"] = "Please enter your name"
		}
	}
	return out
}
