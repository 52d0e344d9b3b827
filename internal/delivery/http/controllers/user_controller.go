package controllers

import (
	"log/slog"
	"net/http"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/delivery/http/middleware"
	"eventpages/internal/domain"
)

// UpdateMeRequest is the request body for PATCH /users/me. Nil fields are unchanged.
type UpdateMeRequest struct {
	Name     *string `json:"name"`
	LastName *string `json:"last_name"`
}

// UserSuccessResponse is the success response envelope for user endpoints.
type UserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// GetMe godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Description Updates name fields. Email cannot be changed here.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateMeRequest true "Fields to update"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me [patch]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateMeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if err := c.Service.Update(r.Context(), user); err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}
