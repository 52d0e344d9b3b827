package controllers

import (
	"log/slog"
	"net/http"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/domain"
)

// RequestCodeRequest is the request body for POST /auth/code/request.
type RequestCodeRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (req RequestCodeRequest) Validate() []string {
	var errs []string
	if req.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(req.Email) {
		errs = append(errs, "email format is invalid")
	}
	return errs
}

// VerifyCodeRequest is the request body for POST /auth/code/verify.
type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate implements Validator.
func (req VerifyCodeRequest) Validate() []string {
	var errs []string
	if req.Email == "" {
		errs = append(errs, "email is required")
	}
	if req.Code == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

// VerifyCodeResponse is the response body for a successful code verification.
type VerifyCodeResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// VerifyCodeSuccessResponse is the success response envelope for POST /auth/code/verify (200).
type VerifyCodeSuccessResponse struct {
	Data  VerifyCodeResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewAuthController(logger *slog.Logger, svc domain.UserService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// RequestCode godoc
// @Summary Request a login code
// @Description Emails a short-lived one-time login code to the given address. Always responds 202 so callers cannot probe which addresses have accounts.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RequestCodeRequest true "Email to send the code to"
// @Success 202 {object} helpers.APIResponse "code requested"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/code/request [post]
func (c *AuthController) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req RequestCodeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RequestLoginCode(r.Context(), req.Email); err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusAccepted, map[string]string{"status": "code_sent"})
}

// VerifyCode godoc
// @Summary Verify a login code
// @Description Exchanges a valid login code for a Bearer token. A first-time email gets an account created on the spot.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body VerifyCodeRequest true "Email and code"
// @Success 200 {object} controllers.VerifyCodeSuccessResponse "data contains token and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (wrong or expired code)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/code/verify [post]
func (c *AuthController) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.VerifyLoginCode(r.Context(), req.Email, req.Code)
	if err != nil {
		respondError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, VerifyCodeResponse{Token: token, User: user})
}
