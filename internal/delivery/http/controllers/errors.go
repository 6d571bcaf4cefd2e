package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

// userIDOr401 pulls the authenticated user id from the request context and
// writes a 401 when it is missing.
func userIDOr401(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok || userID == "" {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// writeDomainError maps service errors to the API error envelope. Unmapped
// errors are logged and reported as 500.
func writeDomainError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var invalidFilter *query.InvalidFilterError
	var invalidValue *query.InvalidFilterValueError
	var multiIneq *query.MultipleInequalityFieldsError

	switch {
	case errors.As(err, &invalidFilter), errors.As(err, &invalidValue), errors.As(err, &multiIneq),
		errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrNoSeatsAvailable),
		errors.Is(err, domain.ErrAlreadyInWishlist),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateSpeaker):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrContention):
		h.WriteJSONError(w, http.StatusServiceUnavailable, h.ErrCodeServiceUnavailable, "store contention, retry the request")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}
