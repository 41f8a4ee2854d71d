package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"grantos/internal/domain"
	"grantos/internal/httputil"
)

// handleError maps domain errors to RFC 7807 responses. Typed errors
// carry their own status; sentinel matches cover wrapped errors; anything
// else is an internal error, logged with detail but surfaced opaquely.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
