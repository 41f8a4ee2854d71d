package handler

import (
	"net/http"

	"grantos/internal/httputil"
)

// Root responds with service identification
// GET /
func Root(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Mono-Grant-OS Backend is running",
	})
}

// HealthCheck responds with service health
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
