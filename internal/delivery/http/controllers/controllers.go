// Package controllers holds the HTTP handlers. Controllers decode and validate
// request bodies, delegate to services, and translate domain errors into the
// standard response envelope.
package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/domain"
	"eventpages/internal/pageconfig"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// respondError maps service errors to HTTP responses. Unexpected errors are
// logged and reported as 500 without leaking internals.
func respondError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var verr *pageconfig.ValidationError
	var merr *pageconfig.MigrationError
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "you do not own this event")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid input")
	case errors.Is(err, domain.ErrDuplicateInvite):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already invited")
	case errors.Is(err, domain.ErrEventFull):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event is at capacity")
	case errors.Is(err, domain.ErrAlreadyResponded):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "invitation already responded")
	case errors.Is(err, domain.ErrDuplicateEmail):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already in use")
	case errors.As(err, &verr):
		helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeBadRequest, verr.Error())
	case errors.As(err, &merr):
		helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeBadRequest, merr.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}
