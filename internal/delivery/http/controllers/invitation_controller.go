package controllers

import (
	"log/slog"
	"net/http"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/delivery/http/middleware"
	"eventpages/internal/domain"
)

// maxInvitationBatch caps how many emails one request may invite.
const maxInvitationBatch = 200

// SendInvitationsRequest is the request body for POST /events/{eventID}/invitations.
type SendInvitationsRequest struct {
	Emails []string `json:"emails"`
}

// Validate implements Validator.
func (req SendInvitationsRequest) Validate() []string {
	var errs []string
	if len(req.Emails) == 0 {
		errs = append(errs, "emails is required")
	}
	if len(req.Emails) > maxInvitationBatch {
		errs = append(errs, "too many emails in one batch")
	}
	for _, email := range req.Emails {
		if email != "" && !emailRegex.MatchString(email) {
			errs = append(errs, "invalid email: "+email)
		}
	}
	return errs
}

// SendInvitationsResponse is the response body for a processed invitation batch.
type SendInvitationsResponse struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed"`
}

// InvitationListResponse is the response body for the paginated invitation listing.
type InvitationListResponse struct {
	Invitations []*domain.Invitation   `json:"invitations"`
	Pagination  helpers.PaginationMeta `json:"pagination"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// SendInvitations godoc
// @Summary Invite guests by email
// @Description Creates an invitation per email and queues an invitation message for each. Emails already invited are reported in failed without aborting the batch.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SendInvitationsRequest true "Emails to invite"
// @Success 200 {object} helpers.APIResponse "data contains sent count and failed emails"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/invitations [post]
func (c *InvitationController) SendInvitations(w http.ResponseWriter, r *http.Request) {
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
	var req SendInvitationsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sent, failed, err := c.Service.SendInvitations(r.Context(), eventID, userID, req.Emails)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	if failed == nil {
		failed = []string{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SendInvitationsResponse{Sent: sent, Failed: failed})
}

// ListInvitations godoc
// @Summary List an event's invitations
// @Description Paginated listing with optional email search, including each invitation's RSVP status and guest count.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param search query string false "Filter by email substring"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains invitations and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/invitations [get]
func (c *InvitationController) ListInvitations(w http.ResponseWriter, r *http.Request) {
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
	params := helpers.ParsePagination(r)
	search := r.URL.Query().Get("search")
	invitations, total, err := c.Service.ListInvitations(r.Context(), eventID, userID, search, params)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InvitationListResponse{
		Invitations: invitations,
		Pagination:  helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
