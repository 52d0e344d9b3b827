package controllers

import (
	"log/slog"
	"net/http"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/domain"
)

// RSVPRequest is the request body for POST /rsvp/{invitationToken}.
type RSVPRequest struct {
	Status     string `json:"status"`
	GuestCount int    `json:"guest_count"`
}

// Validate implements Validator.
func (req RSVPRequest) Validate() []string {
	var errs []string
	switch req.Status {
	case domain.InviteStatusAccepted, domain.InviteStatusDeclined:
	default:
		errs = append(errs, "status must be accepted or declined")
	}
	if req.GuestCount < 0 {
		errs = append(errs, "guest_count must not be negative")
	}
	return errs
}

// RenderedPageSuccessResponse is the success response envelope for page render endpoints.
type RenderedPageSuccessResponse struct {
	Data  *domain.RenderedPage `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// PublicController serves the unauthenticated surface: rendered public pages,
// previews, and RSVP responses.
type PublicController struct {
	Logger      *slog.Logger
	Pages       domain.PageService
	Invitations domain.InvitationService
}

func NewPublicController(logger *slog.Logger, pages domain.PageService, invitations domain.InvitationService) *PublicController {
	return &PublicController{
		Logger:      logger,
		Pages:       pages,
		Invitations: invitations,
	}
}

// RenderPage godoc
// @Summary Render a public event page
// @Description Returns the rendered page tree for the event's public slug. Unknown templates fall back to the default; an unreadable stored config falls back to a minimal page. Each hit counts as a page view.
// @Tags public
// @Produce json
// @Param slug path string true "Public slug"
// @Success 200 {object} controllers.RenderedPageSuccessResponse "data contains the rendered page"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /p/{slug} [get]
func (c *PublicController) RenderPage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	page, _, err := c.Pages.RenderPublic(r.Context(), slug)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, page)
}

// RenderPreview godoc
// @Summary Render a page preview
// @Description Resolves a preview token and renders the page with a non-indexable preview banner. Expired and unknown tokens are indistinguishable (both 404).
// @Tags public
// @Produce json
// @Param token path string true "Preview token"
// @Success 200 {object} controllers.RenderedPageSuccessResponse "data contains the rendered page"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /preview/{token} [get]
func (c *PublicController) RenderPreview(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	page, err := c.Pages.RenderPreview(r.Context(), token)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, page)
}

// Respond godoc
// @Summary Respond to an invitation
// @Description Records an accept or decline for the invitation token. Accepting checks remaining capacity; a full event responds 409. An invitation can only be answered once.
// @Tags public
// @Accept json
// @Produce json
// @Param invitationToken path string true "Invitation token"
// @Param body body RSVPRequest true "Response"
// @Success 200 {object} helpers.APIResponse "data contains the recorded response and event name"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (full or already responded)"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /rsvp/{invitationToken} [post]
func (c *PublicController) Respond(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("invitationToken")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing invitation token")
		return
	}
	var req RSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Invitations.Respond(r.Context(), token, req.Status, req.GuestCount)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
