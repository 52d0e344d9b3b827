package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/delivery/http/middleware"
	"eventpages/internal/domain"
)

// CreateEventRequest is the request body for POST /events. Slug and id are
// server-generated; template_id defaults to the default template.
type CreateEventRequest struct {
	Name        string     `json:"name"`
	TemplateID  string     `json:"template_id"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	Venue       *string    `json:"venue"`
	Capacity    *int       `json:"capacity"`
}

// Validate implements Validator.
func (req CreateEventRequest) Validate() []string {
	var errs []string
	if req.Name == "" {
		errs = append(errs, "name is required")
	}
	if req.Capacity != nil && *req.Capacity < 0 {
		errs = append(errs, "capacity must not be negative")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. Nil fields are unchanged.
type UpdateEventRequest struct {
	Name        *string    `json:"name"`
	TemplateID  *string    `json:"template_id"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	Venue       *string    `json:"venue"`
	Capacity    *int       `json:"capacity"`
}

// EventSuccessResponse is the success response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success response envelope for GET /events.
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event owned by the authenticated user. The public slug is derived from the name plus a random suffix.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	now := time.Now()
	event := domain.NewEvent(req.Name, "", req.TemplateID, userID, now, now)
	event.Description = req.Description
	event.StartsAt = req.StartsAt
	event.Venue = req.Venue
	event.Capacity = req.Capacity
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List the authenticated user's events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListMyEvents(r.Context(), userID)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
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
	event, err := c.Service.GetEvent(r.Context(), eventID, userID)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Updates event details. Only the owner may update; the slug never changes.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
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
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, userID, domain.EventUpdate{
		Name:        req.Name,
		TemplateID:  req.TemplateID,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		Venue:       req.Venue,
		Capacity:    req.Capacity,
	})
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and everything attached to it (page versions, assets, invitations, preview tokens).
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
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
	if err := c.Service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
