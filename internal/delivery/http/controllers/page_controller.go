package controllers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/delivery/http/middleware"
	"eventpages/internal/domain"
)

// maxConfigBodySize caps PUT page bodies. Page documents are small; anything
// near this limit is abuse.
const maxConfigBodySize = 1 << 20

// CreatePreviewTokenRequest is the request body for POST /events/{eventID}/page/preview-tokens.
type CreatePreviewTokenRequest struct {
	// TTLMinutes is the token lifetime in minutes. Zero means the default.
	TTLMinutes int `json:"ttl_minutes"`
}

// Validate implements Validator.
func (req CreatePreviewTokenRequest) Validate() []string {
	var errs []string
	if req.TTLMinutes < 0 {
		errs = append(errs, "ttl_minutes must not be negative")
	}
	return errs
}

// PreviewTokenResponse is the response body for a created preview token.
type PreviewTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PageConfigSuccessResponse is the success response envelope for GET page config.
type PageConfigSuccessResponse struct {
	Data  *domain.PageConfig `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// PageVersionSuccessResponse is the success response envelope for version endpoints.
type PageVersionSuccessResponse struct {
	Data  *domain.EventPageVersion `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// PageVersionListSuccessResponse is the success response envelope for the version history listing.
type PageVersionListSuccessResponse struct {
	Data  []*domain.EventPageVersion `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

type PageController struct {
	Logger  *slog.Logger
	Service domain.PageService
}

func NewPageController(logger *slog.Logger, svc domain.PageService) *PageController {
	return &PageController{
		Logger:  logger,
		Service: svc,
	}
}

// callerAndEvent pulls the path event ID and the authenticated user, writing
// the error response itself when either is missing.
func callerAndEvent(w http.ResponseWriter, r *http.Request) (eventID, userID string, ok bool) {
	eventID = r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return "", "", false
	}
	userID, authed := middleware.UserIDFromContext(r.Context())
	if !authed {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", "", false
	}
	return eventID, userID, true
}

// GetConfig godoc
// @Summary Get the event's page config
// @Description Returns the live page config migrated to the current schema. A brand-new event gets a minimal config materialized on first read.
// @Tags pages
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.PageConfigSuccessResponse "data contains the config"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/page [get]
func (c *PageController) GetConfig(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := callerAndEvent(w, r)
	if !ok {
		return
	}
	cfg, err := c.Service.GetConfig(r.Context(), eventID, userID)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, cfg)
}

// SaveConfig godoc
// @Summary Save the event's page config
// @Description Validates the document (migrating older schema versions forward) and stores it as a new immutable version plus the live config. The raw body is the page document itself, not an envelope.
// @Tags pages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param config body domain.PageConfig true "Page document"
// @Success 200 {object} controllers.PageVersionSuccessResponse "data contains the created version"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: bad_request (validation problems)"
// @Router /events/{eventID}/page [put]
func (c *PageController) SaveConfig(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := callerAndEvent(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxConfigBodySize))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "failed to read body")
		return
	}
	if !json.Valid(body) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "body must be a JSON document")
		return
	}
	version, err := c.Service.SaveConfig(r.Context(), eventID, userID, body)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, version)
}

// ListVersions godoc
// @Summary List the page's version history
// @Description Returns versions most-recent-first, capped at 50.
// @Tags pages
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.PageVersionListSuccessResponse "data contains the versions"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/page/versions [get]
func (c *PageController) ListVersions(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := callerAndEvent(w, r)
	if !ok {
		return
	}
	versions, err := c.Service.ListVersions(r.Context(), eventID, userID)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, versions)
}

// GetVersion godoc
// @Summary Get one version from the page's history
// @Tags pages
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param versionID path string true "Version ID (UUID)"
// @Success 200 {object} controllers.PageVersionSuccessResponse "data contains the version"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/page/versions/{versionID} [get]
func (c *PageController) GetVersion(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := callerAndEvent(w, r)
	if !ok {
		return
	}
	versionID := r.PathValue("versionID")
	if versionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing versionID")
		return
	}
	version, err := c.Service.GetVersion(r.Context(), eventID, versionID, userID)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, version)
}

// Rollback godoc
// @Summary Roll the live config back to a previous version
// @Description Re-validates the target snapshot against the current schema and, if it passes, records it as a brand-new version. History rows are never mutated or deleted. A snapshot with no migration path is refused with 422.
// @Tags pages
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param versionID path string true "Version ID (UUID)"
// @Success 200 {object} controllers.PageVersionSuccessResponse "data contains the new version"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: bad_request (snapshot unreadable under current schema)"
// @Router /events/{eventID}/page/versions/{versionID}/rollback [post]
func (c *PageController) Rollback(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := callerAndEvent(w, r)
	if !ok {
		return
	}
	versionID := r.PathValue("versionID")
	if versionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing versionID")
		return
	}
	version, err := c.Service.Rollback(r.Context(), eventID, versionID, userID)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, version)
}

// CreatePreviewToken godoc
// @Summary Create a preview token
// @Description Creates a time-limited token granting read access to the rendered page before it is shared. The plaintext token is returned exactly once.
// @Tags pages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body CreatePreviewTokenRequest true "Token lifetime"
// @Success 201 {object} helpers.APIResponse "data contains token and expires_at"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/page/preview-tokens [post]
func (c *PageController) CreatePreviewToken(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := callerAndEvent(w, r)
	if !ok {
		return
	}
	var req CreatePreviewTokenRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ttl := time.Duration(req.TTLMinutes) * time.Minute
	token, expiresAt, err := c.Service.CreatePreviewToken(r.Context(), eventID, userID, ttl)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, PreviewTokenResponse{Token: token, ExpiresAt: expiresAt})
}
