package handler

import (
	"log/slog"
	"net/http"

	"grantos/internal/httputil"
	"grantos/internal/service/planning"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService   *planning.ProjectService
	dashboardService *planning.DashboardService
	logger           *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(
	projectService *planning.ProjectService,
	dashboardService *planning.DashboardService,
	logger *slog.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projectService:   projectService,
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// CreateProject creates a new project
// POST /api/v1/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req planning.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, project)
}

// ListProjects retrieves all projects
// GET /api/v1/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListProjects(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, projects)
}

// GetProject retrieves a project by ID
// GET /api/v1/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Project ID is required")
		return
	}

	project, err := h.projectService.GetProject(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// UpdateProject applies a partial update to a project
// PATCH /api/v1/projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Project ID is required")
		return
	}

	var req planning.UpdateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// ClearProjects deletes all projects and funding data (dev utility)
// DELETE /api/v1/projects/clear
func (h *ProjectHandler) ClearProjects(w http.ResponseWriter, r *http.Request) {
	if err := h.projectService.ClearAll(r.Context()); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DashboardStats serves the aggregate dashboard view
// GET /api/v1/dashboard/stats
func (h *ProjectHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stats)
}
