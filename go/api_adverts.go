package petsetuserver

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	adverthttpmapper "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/http/mapper"
	advertsapp "github.com/petsetu/petsetu-web/internal/domains/adverts/application"
	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	advertdomain "github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	advertsports "github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
	apierrors "github.com/petsetu/petsetu-web/internal/shared/errors"
)

// MaxUploadFileSize bounds one file of a media batch.
const MaxUploadFileSize = 10 << 20

// AdvertAPI exposes the post-creation draft workflow.
type AdvertAPI struct {
	service advertsports.Service
}

// NewAdvertAPI creates an AdvertAPI backed by the provided service.
func NewAdvertAPI(service advertsports.Service) AdvertAPI {
	return AdvertAPI{service: service}
}

// Post /api/drafts
// Opens a draft on the first step
func (api *AdvertAPI) CreateDraft(c *gin.Context) {
	view, err := api.service.CreateDraft(c.Request.Context(), currentAuthor(c))
	if err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, adverthttpmapper.FromDraftView(view))
}

// Get /api/drafts/:draftId
// Returns the current draft state
func (api *AdvertAPI) GetDraft(c *gin.Context) {
	view, err := api.service.GetDraft(c.Request.Context(), draftRef(c))
	if err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adverthttpmapper.FromDraftView(view))
}

// Patch /api/drafts/:draftId
// Applies a partial update of the form values
func (api *AdvertAPI) PatchDraft(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.PatchDraft(c.Request.Context(), draftRef(c), body)
	if err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adverthttpmapper.FromDraftView(view))
}

// Delete /api/drafts/:draftId
// Discards the draft and releases its previews
func (api *AdvertAPI) DiscardDraft(c *gin.Context) {
	if err := api.service.Discard(c.Request.Context(), draftRef(c)); err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /api/drafts/:draftId/next
// Validates the current step and moves forward
func (api *AdvertAPI) AdvanceDraft(c *gin.Context) {
	view, err := api.service.Advance(c.Request.Context(), draftRef(c))
	if err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adverthttpmapper.FromDraftView(view))
}

// Post /api/drafts/:draftId/back
// Moves one step back without validation
func (api *AdvertAPI) RetreatDraft(c *gin.Context) {
	view, err := api.service.Retreat(c.Request.Context(), draftRef(c))
	if err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adverthttpmapper.FromDraftView(view))
}

// Get /api/drafts/:draftId/breeds
// Lists the breeds of the selected category
func (api *AdvertAPI) ListBreeds(c *gin.Context) {
	breeds, err := api.service.ListBreeds(c.Request.Context(), draftRef(c))
	if err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adverthttpmapper.FromBreeds(breeds))
}

// Get /api/drafts/:draftId/address
// Looks up address candidates; a newer query supersedes an older one
func (api *AdvertAPI) SuggestAddress(c *gin.Context) {
	view, err := api.service.SuggestAddress(c.Request.Context(), draftRef(c), c.Query("q"))
	if err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adverthttpmapper.FromSuggestionView(view))
}

// Post /api/drafts/:draftId/address/select
// Writes a suggestion into the address fields
func (api *AdvertAPI) SelectAddress(c *gin.Context) {
	var payload adverthttpmapper.SelectAddress
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	index, err := adverthttpmapper.ToSuggestionIndex(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.SelectAddress(c.Request.Context(), draftRef(c), index)
	if err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adverthttpmapper.FromDraftView(view))
}

// Post /api/drafts/:draftId/media
// Uploads a batch of photos from the multipart "files" field
func (api *AdvertAPI) UploadMedia(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		respondBadRequest(c, errors.New("files are required"))
		return
	}
	files := make([]advertdomain.MediaFile, 0, len(headers))
	for _, header := range headers {
		file, err := readMediaFile(header)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		files = append(files, file)
	}
	report, err := api.service.UploadMedia(c.Request.Context(), draftRef(c), files)
	if err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adverthttpmapper.FromUploadReport(report))
}

func readMediaFile(header *multipart.FileHeader) (advertdomain.MediaFile, error) {
	if header.Size > MaxUploadFileSize {
		return advertdomain.MediaFile{}, fmt.Errorf("%s exceeds %d bytes", header.Filename, MaxUploadFileSize)
	}
	f, err := header.Open()
	if err != nil {
		return advertdomain.MediaFile{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadFileSize+1))
	if err != nil {
		return advertdomain.MediaFile{}, err
	}
	if len(data) > MaxUploadFileSize {
		return advertdomain.MediaFile{}, fmt.Errorf("%s exceeds %d bytes", header.Filename, MaxUploadFileSize)
	}
	return advertdomain.MediaFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Delete /api/drafts/:draftId/media/:index
// Removes one uploaded photo
func (api *AdvertAPI) RemoveMedia(c *gin.Context) {
	index, ok := parseIndexParam(c, "index")
	if !ok {
		return
	}
	view, err := api.service.RemoveMedia(c.Request.Context(), draftRef(c), index)
	if err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adverthttpmapper.FromDraftView(view))
}

// Post /api/drafts/:draftId/submit
// Creates the post from the final step
func (api *AdvertAPI) SubmitDraft(c *gin.Context) {
	ref := draftRef(c)
	result, err := api.service.Submit(c.Request.Context(), ref)
	if err != nil {
		problem := advertProblem(err)
		// The draft survives a failed submit; return it so the form can re-render.
		if view, getErr := api.service.GetDraft(c.Request.Context(), ref); getErr == nil {
			problem = problem.WithExtension("draft", adverthttpmapper.FromDraftView(view))
		}
		respondProblem(c, problem)
		return
	}
	body := adverthttpmapper.FromSubmissionResult(result)
	c.Header("Location", body.Location)
	c.JSON(http.StatusCreated, body)
}

// Get /previews/:handle
// Serves the local copy of a selected photo
func (api *AdvertAPI) GetPreview(c *gin.Context) {
	preview, err := api.service.Preview(c.Request.Context(), c.Param("handle"))
	if err != nil {
		respondAdvertServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, preview.ContentType, preview.Data)
}

func currentAuthor(c *gin.Context) advertdomain.Author {
	session := currentSession(c)
	if session == nil {
		return advertdomain.Author{}
	}
	return advertdomain.Author{
		UserID:     session.User.ID,
		Token:      session.AccessToken(),
		SellerType: session.User.SellerType,
	}
}

func draftRef(c *gin.Context) adverttypes.DraftRef {
	return adverttypes.DraftRef{DraftID: c.Param("draftId"), Author: currentAuthor(c)}
}

func parseIndexParam(c *gin.Context, name string) (int, bool) {
	value := c.Param(name)
	index, err := strconv.Atoi(value)
	if err != nil || index < 0 {
		respondBadRequest(c, fmt.Errorf("invalid %s %q", name, value))
		return 0, false
	}
	return index, true
}

func respondAdvertServiceError(c *gin.Context, err error) {
	respondProblem(c, advertProblem(err))
}

func advertProblem(err error) apierrors.ProblemDetail {
	var verr *advertsapp.ValidationError
	switch {
	case errors.As(err, &verr):
		return apierrors.NewValidationProblem(verr.Fields)
	case errors.Is(err, advertsapp.ErrInvalidInput):
		return apierrors.ErrBadRequest.WithDetail(err.Error())
	case errors.Is(err, advertsapp.ErrAuthRequired), errors.Is(err, advertsports.ErrUpstreamUnauthorized):
		return apierrors.ErrUnauthorized.WithDetail(err.Error())
	case errors.Is(err, advertsports.ErrDraftNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error())
	case errors.Is(err, advertsports.ErrPreviewNotFound),
		errors.Is(err, advertsapp.ErrMediaNotFound),
		errors.Is(err, advertsapp.ErrSuggestionNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error())
	case errors.Is(err, advertsapp.ErrNotFinalStep),
		errors.Is(err, advertsapp.ErrSubmissionInProgress),
		errors.Is(err, advertsapp.ErrDraftClosed),
		errors.Is(err, advertsports.ErrSubmissionConflict):
		return apierrors.ErrConflict.WithDetail(err.Error())
	case errors.Is(err, advertsapp.ErrConfiguration):
		return apierrors.ErrNotConfigured.WithDetail(err.Error())
	case errors.Is(err, advertsports.ErrUpstreamTimeout):
		return apierrors.ErrUpstreamTimeout.WithDetail(err.Error())
	case errors.Is(err, advertsports.ErrUpstream), errors.Is(err, advertsports.ErrResponseShape):
		return apierrors.ErrUpstream.WithDetail(err.Error())
	default:
		return apierrors.ErrInternal.WithDetail(err.Error())
	}
}
