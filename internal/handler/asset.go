package handler

import (
	"log/slog"
	"net/http"

	"grantos/internal/httputil"
	"grantos/internal/service/archive"
)

// AssetHandler handles media asset HTTP requests
type AssetHandler struct {
	archiveService *archive.Service
	logger         *slog.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(archiveService *archive.Service, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		archiveService: archiveService,
		logger:         logger,
	}
}

// scanRequest is the body for a directory scan
type scanRequest struct {
	DirectoryPath string `json:"directory_path"`
}

// ScanDirectory indexes media files under a directory for a project
// POST /api/v1/projects/{id}/scan
func (h *AssetHandler) ScanDirectory(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Project ID is required")
		return
	}

	var req scanRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DirectoryPath == "" {
		httputil.RespondError(w, http.StatusBadRequest, "directory_path is required")
		return
	}

	assets, err := h.archiveService.ScanDirectory(r.Context(), projectID, req.DirectoryPath)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, assets)
}

// ListAssets retrieves all assets for a project
// GET /api/v1/projects/{id}/assets
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Project ID is required")
		return
	}

	assets, err := h.archiveService.ListAssets(r.Context(), projectID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, assets)
}

// UpdateAsset applies a partial metadata update to an asset
// PUT /api/v1/assets/{id}
func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var req archive.UpdateAssetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	asset, err := h.archiveService.UpdateAsset(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, asset)
}
