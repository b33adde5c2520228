package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	// PostTypeAll disables the post type filter.
	PostTypeAll = "all"
	// CategoryAll disables the category filter.
	CategoryAll = "all"
	// DefaultPageSize is the search page size.
	DefaultPageSize = 20
	// SortNewestFirst orders search results by creation time.
	SortNewestFirst = "createdAt:desc"
)

var (
	ErrInvalidPostType = errors.New("post type must be one of all, sell, adopt, breed")
	ErrInvalidCategory = errors.New("unknown pet category")
	ErrEmptyPostID     = errors.New("post id is required")
)

var postTypes = map[string]struct{}{PostTypeAll: {}, "sell": {}, "adopt": {}, "breed": {}}

// Pet describes the animal of a listing.
type Pet struct {
	Name                  string
	Sex                   string
	AgeMonths             *float64
	Weight                *float64
	IsVaccinationDone     *bool
	KnowEssentialCommands *bool
	Breeds                []string
}

// Owner is the public contact of the listing owner.
type Owner struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// Post is a marketplace listing.
type Post struct {
	ID           string
	Title        string
	Description  string
	PostType     string
	Photos       []string
	Price        *float64
	Currency     string
	Address1     string
	Address2     string
	City         string
	State        string
	Country      string
	Pincode      string
	Phone        string
	IsFeatured   bool
	IsActive     bool
	IsDeleted    bool
	CategoryID   string
	CategoryName string
	Pet          *Pet
	Owner        *Owner
	// Coordinates are [longitude, latitude] when present.
	Coordinates *[2]float64
	CreatedAt   time.Time
}

// Listed reports whether the post belongs in public indexes.
func (p Post) Listed() bool {
	return strings.TrimSpace(p.ID) != "" && p.IsActive && !p.IsDeleted
}

// SearchQuery filters the listing search.
type SearchQuery struct {
	Page     int
	Limit    int
	PostType string
	// Location is forwarded as is; the backend may ignore it.
	Location string
	Category string
}

// Normalize applies defaults and validates the post type.
func (q *SearchQuery) Normalize() error {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	q.PostType = strings.ToLower(strings.TrimSpace(q.PostType))
	if q.PostType == "" {
		q.PostType = PostTypeAll
	}
	if _, ok := postTypes[q.PostType]; !ok {
		return ErrInvalidPostType
	}
	q.Location = strings.TrimSpace(q.Location)
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Category == "" {
		q.Category = CategoryAll
	}
	return nil
}

// Page is one page of search results.
type Page struct {
	Results      []Post
	Page         int
	Limit        int
	TotalPages   int
	TotalResults int
}

// ChangeFrequency values used in the sitemap.
const (
	ChangeDaily  = "daily"
	ChangeWeekly = "weekly"
)

// SitemapEntry is one URL of the sitemap.
type SitemapEntry struct {
	URL             string
	ChangeFrequency string
	Priority        float64
	LastModified    *time.Time
}

// StaticRoutes are the always-present sitemap paths.
var StaticRoutes = []string{"", "/search", "/profile", "/privacy-policy"}

// StaticEntries builds the sitemap entries of StaticRoutes under base.
func StaticEntries(base string) []SitemapEntry {
	base = strings.TrimSuffix(base, "/")
	out := make([]SitemapEntry, 0, len(StaticRoutes))
	for _, path := range StaticRoutes {
		entry := SitemapEntry{URL: base + path, ChangeFrequency: ChangeWeekly, Priority: 0.7}
		if path == "" {
			entry.URL = base + "/"
			entry.Priority = 1
		}
		out = append(out, entry)
	}
	return out
}

// PostEntry builds the sitemap entry of a listed post.
func PostEntry(base string, post Post) SitemapEntry {
	entry := SitemapEntry{
		URL:             strings.TrimSuffix(base, "/") + "/post/" + post.ID,
		ChangeFrequency: ChangeDaily,
		Priority:        0.8,
	}
	if !post.CreatedAt.IsZero() {
		created := post.CreatedAt
		entry.LastModified = &created
	}
	return entry
}

// Robots is the crawler policy.
type Robots struct {
	UserAgent string
	Allow     string
	Sitemap   string
}

// NewRobots allows every crawler everywhere and points at the sitemap under base.
func NewRobots(base string) Robots {
	return Robots{UserAgent: "*", Allow: "/", Sitemap: strings.TrimSuffix(base, "/") + "/sitemap.xml"}
}

// String renders robots.txt.
func (r Robots) String() string {
	var b strings.Builder
	b.WriteString("User-Agent: " + r.UserAgent + "\n")
	b.WriteString("Allow: " + r.Allow + "\n")
	b.WriteString("\nSitemap: " + r.Sitemap + "\n")
	return b.String()
}
