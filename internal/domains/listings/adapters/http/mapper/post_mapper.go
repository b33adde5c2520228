package mapper

import (
	"encoding/xml"
	"strconv"
	"time"

	advertdomain "github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/listings/domain"
)

// SitemapNamespace is the sitemaps.org schema of the urlset document.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SearchQuery binds the query string of the listing search.
type SearchQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	PostType string `form:"postType"`
	Location string `form:"location"`
	Category string `form:"category"`
}

// ToSearchQuery converts bound parameters into the domain query.
func ToSearchQuery(q SearchQuery) domain.SearchQuery {
	return domain.SearchQuery{
		Page:     q.Page,
		Limit:    q.Limit,
		PostType: q.PostType,
		Location: q.Location,
		Category: q.Category,
	}
}

// Pet is the HTTP representation of a listed animal.
type Pet struct {
	Name                  string   `json:"name,omitempty"`
	Sex                   string   `json:"sex,omitempty"`
	AgeMonths             *float64 `json:"ageMonths,omitempty"`
	Weight                *float64 `json:"weight,omitempty"`
	IsVaccinationDone     *bool    `json:"isVaccinationDone,omitempty"`
	KnowEssentialCommands *bool    `json:"knowEssentialCommands,omitempty"`
	Breeds                []string `json:"breeds"`
}

// Owner is the public contact of a listing.
type Owner struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Post is the HTTP representation of a listing. Photos are absolute image URLs.
type Post struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	PostType     string      `json:"postType"`
	Photos       []string    `json:"photos"`
	Price        *float64    `json:"price,omitempty"`
	Currency     string      `json:"currency,omitempty"`
	Address1     string      `json:"address1,omitempty"`
	Address2     string      `json:"address2,omitempty"`
	City         string      `json:"city,omitempty"`
	State        string      `json:"state,omitempty"`
	Country      string      `json:"country,omitempty"`
	Pincode      string      `json:"pincode,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	IsFeatured   bool        `json:"isFeatured"`
	CategoryID   string      `json:"categoryId,omitempty"`
	CategoryName string      `json:"categoryName,omitempty"`
	Pet          *Pet        `json:"pet,omitempty"`
	Owner        *Owner      `json:"owner,omitempty"`
	Coordinates  *[2]float64 `json:"coordinates,omitempty"`
	CreatedAt    *time.Time  `json:"createdAt,omitempty"`
}

// Page is one page of listings.
type Page struct {
	Results      []Post `json:"results"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
	TotalPages   int    `json:"totalPages"`
	TotalResults int    `json:"totalResults"`
}

// FromDomainPost converts a post, resolving photo paths against imageBase.
func FromDomainPost(post *domain.Post, imageBase string) Post {
	if post == nil {
		return Post{Photos: []string{}}
	}
	out := Post{
		ID:           post.ID,
		Title:        post.Title,
		Description:  post.Description,
		PostType:     post.PostType,
		Photos:       make([]string, 0, len(post.Photos)),
		Price:        post.Price,
		Currency:     post.Currency,
		Address1:     post.Address1,
		Address2:     post.Address2,
		City:         post.City,
		State:        post.State,
		Country:      post.Country,
		Pincode:      post.Pincode,
		Phone:        post.Phone,
		IsFeatured:   post.IsFeatured,
		CategoryID:   post.CategoryID,
		CategoryName: post.CategoryName,
		Coordinates:  post.Coordinates,
	}
	for _, photo := range post.Photos {
		if resolved := advertdomain.ImageURL(imageBase, photo); resolved != "" {
			out.Photos = append(out.Photos, resolved)
		}
	}
	if !post.CreatedAt.IsZero() {
		created := post.CreatedAt
		out.CreatedAt = &created
	}
	if p := post.Pet; p != nil {
		out.Pet = &Pet{
			Name:                  p.Name,
			Sex:                   p.Sex,
			AgeMonths:             p.AgeMonths,
			Weight:                p.Weight,
			IsVaccinationDone:     p.IsVaccinationDone,
			KnowEssentialCommands: p.KnowEssentialCommands,
			Breeds:                append([]string{}, p.Breeds...),
		}
	}
	if o := post.Owner; o != nil {
		out.Owner = &Owner{ID: o.ID, Name: o.Name, Email: o.Email, Phone: o.Phone}
	}
	return out
}

// FromDomainPage converts a search page.
func FromDomainPage(page *domain.Page, imageBase string) Page {
	if page == nil {
		return Page{Results: []Post{}}
	}
	out := Page{
		Results:      make([]Post, 0, len(page.Results)),
		Page:         page.Page,
		Limit:        page.Limit,
		TotalPages:   page.TotalPages,
		TotalResults: page.TotalResults,
	}
	for i := range page.Results {
		out.Results = append(out.Results, FromDomainPost(&page.Results[i], imageBase))
	}
	return out
}

// URLSet is the sitemap document.
type URLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL is one <url> element.
type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// FromSitemapEntries builds the urlset document.
func FromSitemapEntries(entries []domain.SitemapEntry) URLSet {
	set := URLSet{XMLNS: SitemapNamespace, URLs: make([]SitemapURL, 0, len(entries))}
	for _, e := range entries {
		u := SitemapURL{
			Loc:        e.URL,
			ChangeFreq: e.ChangeFrequency,
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		}
		if e.LastModified != nil {
			u.LastMod = e.LastModified.UTC().Format(time.RFC3339)
		}
		set.URLs = append(set.URLs, u)
	}
	return set
}

// MarshalSitemap renders the urlset with the XML declaration.
func MarshalSitemap(entries []domain.SitemapEntry) ([]byte, error) {
	body, err := xml.MarshalIndent(FromSitemapEntries(entries), "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
