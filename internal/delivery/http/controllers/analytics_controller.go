package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/delivery/http/middleware"
	"eventpages/internal/domain"
)

// AnalyticsSuccessResponse is the success response envelope for the views endpoint.
type AnalyticsSuccessResponse struct {
	Data  *domain.PageViewSummary `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type AnalyticsController struct {
	Logger  *slog.Logger
	Service domain.AnalyticsService
}

func NewAnalyticsController(logger *slog.Logger, svc domain.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		Logger:  logger,
		Service: svc,
	}
}

// Views godoc
// @Summary Get public page view counts
// @Description Per-day view counts for the event's public page over the requested window, plus the total.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param days query int false "Window in days (default 30, max 90)"
// @Success 200 {object} controllers.AnalyticsSuccessResponse "data contains the summary"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/analytics/views [get]
func (c *AnalyticsController) Views(w http.ResponseWriter, r *http.Request) {
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
	days := 0
	if s := r.URL.Query().Get("days"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			days = v
		}
	}
	summary, err := c.Service.Views(r.Context(), eventID, userID, days)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
