package mapper

import (
	"errors"
	"net/url"
	"time"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
)

// PreviewPathPrefix is the route serving locally held previews.
const PreviewPathPrefix = "/previews/"

// Media is the HTTP representation of one uploaded photo.
type Media struct {
	FileName   string `json:"fileName"`
	PreviewURL string `json:"previewUrl"`
}

// Suggestion is the HTTP representation of an address candidate.
type Suggestion struct {
	Address   string   `json:"address"`
	City      string   `json:"city,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Draft is the HTTP representation of a draft workspace.
type Draft struct {
	ID          string            `json:"id"`
	Phase       string            `json:"phase"`
	Step        int               `json:"step"`
	Values      domain.Values     `json:"values"`
	Errors      map[string]string `json:"errors"`
	Media       []Media           `json:"media"`
	Query       string            `json:"query"`
	Suggestions []Suggestion      `json:"suggestions"`
	Notices     []string          `json:"notices"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// SuggestionList answers an address lookup.
type SuggestionList struct {
	Query       string       `json:"query"`
	Suggestions []Suggestion `json:"suggestions"`
	Superseded  bool         `json:"superseded"`
}

// UploadFailure reports one file that was dropped from a batch.
type UploadFailure struct {
	Index    int    `json:"index"`
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// UploadReport answers a media batch.
type UploadReport struct {
	Added    []Media         `json:"added"`
	Failures []UploadFailure `json:"failures"`
	Draft    *Draft          `json:"draft,omitempty"`
}

// Submission carries the navigation target of a created post.
type Submission struct {
	PostID   string `json:"postId"`
	Location string `json:"location"`
	Replayed bool   `json:"replayed,omitempty"`
}

// Breed is one entry of a breed list.
type Breed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BreedList mirrors the backend's breed response envelope.
type BreedList struct {
	Results []Breed `json:"results"`
}

// SelectAddress is the body of an address selection.
type SelectAddress struct {
	Index *int `json:"index"`
}

var errMissingIndex = errors.New("index is required")

// ToSuggestionIndex extracts the selected index.
func ToSuggestionIndex(input SelectAddress) (int, error) {
	if input.Index == nil {
		return 0, errMissingIndex
	}
	return *input.Index, nil
}

// FromDraftView maps a workspace snapshot into its HTTP representation.
func FromDraftView(view *adverttypes.DraftView) Draft {
	if view == nil {
		return Draft{}
	}
	errs := make(map[string]string, len(view.Errors))
	for field, msg := range view.Errors {
		errs[field] = msg
	}
	notices := append([]string{}, view.Notices...)
	return Draft{
		ID:          view.ID,
		Phase:       string(view.Phase),
		Step:        int(view.Step),
		Values:      view.Values,
		Errors:      errs,
		Media:       FromMediaList(view.Media),
		Query:       view.Query,
		Suggestions: FromSuggestions(view.Suggestions),
		Notices:     notices,
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
	}
}

// FromSuggestionView maps a lookup outcome.
func FromSuggestionView(view *adverttypes.SuggestionView) SuggestionList {
	if view == nil {
		return SuggestionList{Suggestions: []Suggestion{}}
	}
	return SuggestionList{
		Query:       view.Query,
		Suggestions: FromSuggestions(view.Suggestions),
		Superseded:  view.Superseded,
	}
}

// FromSuggestions maps candidates; x is longitude and y latitude.
func FromSuggestions(in []domain.AddressSuggestion) []Suggestion {
	out := make([]Suggestion, 0, len(in))
	for _, s := range in {
		out = append(out, Suggestion{Address: s.Address, City: s.City(), Latitude: s.Y, Longitude: s.X})
	}
	return out
}

// FromMediaList maps uploaded items, keeping their order.
func FromMediaList(in []domain.UploadedMedia) []Media {
	out := make([]Media, 0, len(in))
	for _, m := range in {
		out = append(out, Media{FileName: m.RemoteFileName, PreviewURL: PreviewURL(m.PreviewHandle)})
	}
	return out
}

// PreviewURL returns the path serving the preview behind handle.
func PreviewURL(handle string) string {
	if handle == "" {
		return ""
	}
	return PreviewPathPrefix + url.PathEscape(handle)
}

// FromUploadReport maps a batch outcome.
func FromUploadReport(report *adverttypes.UploadReport) UploadReport {
	out := UploadReport{Added: []Media{}, Failures: []UploadFailure{}}
	if report == nil {
		return out
	}
	out.Added = FromMediaList(report.Added)
	for _, f := range report.Failures {
		out.Failures = append(out.Failures, UploadFailure{Index: f.Index, FileName: f.FileName, Reason: f.Reason})
	}
	if report.Draft != nil {
		draft := FromDraftView(report.Draft)
		out.Draft = &draft
	}
	return out
}

// FromSubmissionResult maps the navigation target.
func FromSubmissionResult(result *adverttypes.SubmissionResult) Submission {
	if result == nil {
		return Submission{}
	}
	return Submission{PostID: result.PostID, Location: result.Location, Replayed: result.Replayed}
}

// FromBreeds wraps breeds in the list envelope.
func FromBreeds(in []domain.Breed) BreedList {
	out := BreedList{Results: make([]Breed, 0, len(in))}
	for _, b := range in {
		out.Results = append(out.Results, Breed{ID: b.ID, Name: b.Name})
	}
	return out
}
