package mapper

import (
	"github.com/petsetu/petsetu-web/internal/domains/leads/domain"
)

// Requirement is the body of POST /api/leads.
type Requirement struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	RequirementType string `json:"requirementType"`
	PetType         string `json:"petType"`
	Customer        struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Phone  string `json:"phone"`
		Age    string `json:"age"`
		Gender string `json:"gender"`
	} `json:"customer"`
	Address struct {
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
		City     string `json:"city"`
		State    string `json:"state"`
		Country  string `json:"country"`
		Pincode  string `json:"pincode"`
		Lat      string `json:"lat"`
		Lng      string `json:"lng"`
	} `json:"address"`
}

// Contact is the body of POST /api/contact.
type Contact struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Message      string   `json:"message"`
	AddressQuery string   `json:"addressQuery"`
	Address1     string   `json:"address1"`
	City         string   `json:"city"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

// Receipt acknowledges a forwarded lead.
type Receipt struct {
	ID       string `json:"id,omitempty"`
	LeadType string `json:"leadType"`
}

func ToRequirement(r Requirement) domain.Requirement {
	return domain.Requirement{
		Title:           r.Title,
		Description:     r.Description,
		Name:            r.Customer.Name,
		Email:           r.Customer.Email,
		Phone:           r.Customer.Phone,
		Age:             r.Customer.Age,
		Gender:          r.Customer.Gender,
		Address1:        r.Address.Address1,
		Address2:        r.Address.Address2,
		City:            r.Address.City,
		State:           r.Address.State,
		Country:         r.Address.Country,
		Pincode:         r.Address.Pincode,
		Latitude:        r.Address.Lat,
		Longitude:       r.Address.Lng,
		PetType:         r.PetType,
		RequirementType: r.RequirementType,
	}
}

func ToEnquiry(c Contact) domain.Enquiry {
	return domain.Enquiry{
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Message:   c.Message,
		Query:     c.AddressQuery,
		Address1:  c.Address1,
		City:      c.City,
		Latitude:  c.Lat,
		Longitude: c.Lng,
	}
}

func FromReceipt(r *domain.Receipt) Receipt {
	if r == nil {
		return Receipt{}
	}
	return Receipt{ID: r.ID, LeadType: r.LeadType}
}
