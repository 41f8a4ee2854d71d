package handler

import (
	"log/slog"
	"net/http"

	"grantos/internal/httputil"
	"grantos/internal/service/funding"
)

// ApplicationHandler handles application package HTTP requests
type ApplicationHandler struct {
	fundingService *funding.Service
	logger         *slog.Logger
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(fundingService *funding.Service, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		fundingService: fundingService,
		logger:         logger,
	}
}

// CreateApplication creates the draft application for an opportunity
// POST /api/v1/applications?opportunity_id=...
func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	opportunityID := r.URL.Query().Get("opportunity_id")
	if opportunityID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "opportunity_id is required")
		return
	}

	app, err := h.fundingService.CreateApplication(r.Context(), opportunityID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, app)
}

// GetApplication retrieves an application package by ID
// GET /api/v1/applications/{id}
func (h *ApplicationHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.fundingService.GetApplication(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, app)
}

// UpdateApplication applies a partial update to an application package
// PUT /api/v1/applications/{id}
func (h *ApplicationHandler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	var req funding.UpdateApplicationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	app, err := h.fundingService.UpdateApplication(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, app)
}
