package handler

import (
	"io"
	"log/slog"
	"net/http"

	"grantos/internal/httputil"
	"grantos/internal/service/funding"
)

// maxImportFileBytes caps uploaded import files at 20MB
const maxImportFileBytes = 20 << 20

// OpportunityHandler handles funding opportunity HTTP requests
type OpportunityHandler struct {
	fundingService *funding.Service
	ingestService  *funding.IngestService
	logger         *slog.Logger
}

// NewOpportunityHandler creates a new opportunity handler
func NewOpportunityHandler(
	fundingService *funding.Service,
	ingestService *funding.IngestService,
	logger *slog.Logger,
) *OpportunityHandler {
	return &OpportunityHandler{
		fundingService: fundingService,
		ingestService:  ingestService,
		logger:         logger,
	}
}

// CreateOpportunity creates a new funding opportunity
// POST /api/v1/opportunities
func (h *OpportunityHandler) CreateOpportunity(w http.ResponseWriter, r *http.Request) {
	var req funding.CreateOpportunityRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	opp, err := h.fundingService.CreateOpportunity(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, opp)
}

// ListOpportunities retrieves all opportunities ordered by deadline
// GET /api/v1/opportunities
func (h *OpportunityHandler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	opps, err := h.fundingService.ListOpportunities(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, opps)
}

// GetOpportunity retrieves an opportunity by ID
// GET /api/v1/opportunities/{id}
func (h *OpportunityHandler) GetOpportunity(w http.ResponseWriter, r *http.Request) {
	opp, err := h.fundingService.GetOpportunity(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, opp)
}

// Research discovers opportunities from web search. Query and region
// default server-side when omitted.
// POST /api/v1/opportunities/research?query=...&region=...
func (h *OpportunityHandler) Research(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	region := r.URL.Query().Get("region")

	opps, err := h.ingestService.Research(r.Context(), query, region)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, opps)
}

// importTextRequest is the body for a raw text import
type importTextRequest struct {
	Text string `json:"text"`
}

// ImportText extracts opportunities from pasted text
// POST /api/v1/opportunities/import
func (h *OpportunityHandler) ImportText(w http.ResponseWriter, r *http.Request) {
	var req importTextRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		httputil.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	opps, err := h.ingestService.ImportText(r.Context(), req.Text)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, opps)
}

// ImportFile extracts opportunities from an uploaded file (multipart
// field "file"). PDF uploads are text-extracted, everything else is
// read as plain text.
// POST /api/v1/opportunities/import/file
func (h *OpportunityHandler) ImportFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportFileBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportFileBytes))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Could not read uploaded file")
		return
	}

	opps, err := h.ingestService.ImportFile(r.Context(), data, header.Filename)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, opps)
}
