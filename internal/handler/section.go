package handler

import (
	"log/slog"
	"net/http"

	"grantos/internal/httputil"
	"grantos/internal/service/editorial"
)

// SectionHandler handles section HTTP requests
type SectionHandler struct {
	sectionService *editorial.SectionService
	logger         *slog.Logger
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(sectionService *editorial.SectionService, logger *slog.Logger) *SectionHandler {
	return &SectionHandler{
		sectionService: sectionService,
		logger:         logger,
	}
}

// CreateSection creates a new section under a project
// POST /api/v1/projects/{id}/sections
func (h *SectionHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Project ID is required")
		return
	}

	var req editorial.CreateSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	section, err := h.sectionService.CreateSection(r.Context(), projectID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, section)
}

// ListSections retrieves a project's sections ordered by order_index
// GET /api/v1/projects/{id}/sections
func (h *SectionHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Project ID is required")
		return
	}

	sections, err := h.sectionService.ListSections(r.Context(), projectID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sections)
}

// GetSection retrieves a section by ID
// GET /api/v1/sections/{id}
func (h *SectionHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	section, err := h.sectionService.GetSection(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// updateContentRequest is the body for a content update
type updateContentRequest struct {
	ContentText string `json:"content_text"`
}

// UpdateContent replaces section content and bumps the version
// PUT /api/v1/sections/{id}
func (h *SectionHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var req updateContentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	section, err := h.sectionService.UpdateContent(r.Context(), r.PathValue("id"), req.ContentText)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// SubmitForReview moves a section to Review
// POST /api/v1/sections/{id}/submit
func (h *SectionHandler) SubmitForReview(w http.ResponseWriter, r *http.Request) {
	section, err := h.sectionService.SubmitForReview(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// Reject returns a section to Draft
// POST /api/v1/sections/{id}/reject
func (h *SectionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	section, err := h.sectionService.Reject(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// Approve attempts to lock a section after running consistency checks.
// To the lifecycle manager failed checks are a normal result, not a
// fault; at the transport boundary they map to 400 with the ordered
// failure list so clients can show every violation at once. The section
// remains editable and the caller may retry after fixing it.
// POST /api/v1/sections/{id}/approve  (also served at /lock, legacy alias)
func (h *SectionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	section, failures, err := h.sectionService.Approve(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if len(failures) > 0 {
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "Consistency checks failed", map[string]interface{}{
			"errors":  failures,
			"section": section,
		})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// Review asks the advisor for critique of the section content
// POST /api/v1/sections/{id}/review
func (h *SectionHandler) Review(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.sectionService.ReviewSection(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"feedback": feedback,
	})
}
