package controllers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/delivery/http/middleware"
	"eventpages/internal/domain"
	"eventpages/internal/services"
)

// AssetSuccessResponse is the success response envelope for single-asset endpoints.
type AssetSuccessResponse struct {
	Data  *domain.MediaAsset `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// AssetListSuccessResponse is the success response envelope for the asset listing.
type AssetListSuccessResponse struct {
	Data  []*domain.MediaAsset `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type AssetController struct {
	Logger  *slog.Logger
	Service domain.AssetService
}

func NewAssetController(logger *slog.Logger, svc domain.AssetService) *AssetController {
	return &AssetController{
		Logger:  logger,
		Service: svc,
	}
}

// Upload godoc
// @Summary Upload a media asset
// @Description Multipart upload of one image. The form file field is "file"; kind, alt_text, width, and height are form values. Page configs reference the returned asset id.
// @Tags assets
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param file formData file true "Image file"
// @Param kind formData string true "Asset kind: hero or gallery"
// @Param alt_text formData string false "Alt text"
// @Success 201 {object} controllers.AssetSuccessResponse "data contains the created asset"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/assets [post]
func (c *AssetController) Upload(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(services.MaxAssetSize); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing file field")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, services.MaxAssetSize+1))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "failed to read file")
		return
	}

	width, _ := strconv.Atoi(r.FormValue("width"))
	height, _ := strconv.Atoi(r.FormValue("height"))
	asset, err := c.Service.Upload(r.Context(), eventID, userID, domain.AssetUpload{
		Kind:        r.FormValue("kind"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		Width:       width,
		Height:      height,
		AltText:     r.FormValue("alt_text"),
	})
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, asset)
}

// List godoc
// @Summary List an event's media assets
// @Tags assets
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.AssetListSuccessResponse "data contains the assets"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/assets [get]
func (c *AssetController) List(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	assets, err := c.Service.List(r.Context(), eventID, userID)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, assets)
}

// Delete godoc
// @Summary Delete a media asset
// @Description Removes the asset row and its stored object. Pages that referenced it simply render without the image.
// @Tags assets
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param assetID path string true "Asset ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/assets/{assetID} [delete]
func (c *AssetController) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	assetID := r.PathValue("assetID")
	if eventID == "" || assetID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing path parameters")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), eventID, assetID, userID); err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
