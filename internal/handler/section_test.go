package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/service/editorial"
)

// memSectionRepo is an in-memory SectionRepository for transport tests
type memSectionRepo struct {
	sections map[string]models.Section
}

func (r *memSectionRepo) Create(_ context.Context, section *models.Section) error {
	r.sections[section.ID] = *section
	return nil
}

func (r *memSectionRepo) GetByID(_ context.Context, id string) (*models.Section, error) {
	s, ok := r.sections[id]
	if !ok {
		return nil, fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}
	copied := s
	return &copied, nil
}

func (r *memSectionRepo) ListByProject(_ context.Context, projectID string) ([]models.Section, error) {
	out := []models.Section{}
	for _, s := range r.sections {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSectionRepo) Update(_ context.Context, section *models.Section) error {
	r.sections[section.ID] = *section
	return nil
}

func newSectionTestMux(repo *memSectionRepo) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := editorial.NewSectionService(repo, nil, logger)
	h := NewSectionHandler(svc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/sections/{id}", h.GetSection)
	mux.HandleFunc("PUT /api/v1/sections/{id}", h.UpdateContent)
	mux.HandleFunc("POST /api/v1/sections/{id}/approve", h.Approve)
	return mux
}

func seedSection(repo *memSectionRepo, status models.SectionStatus, content string) string {
	repo.sections = map[string]models.Section{
		"sec-1": {
			ID:          "sec-1",
			ProjectID:   "proj-1",
			Title:       "Introduction",
			Version:     3,
			Status:      status,
			ContentText: content,
		},
	}
	return "sec-1"
}

func TestApproveEndpointLocks(t *testing.T) {
	repo := &memSectionRepo{}
	id := seedSection(repo, models.SectionReview, "A finished section ready for the printer.")
	mux := newSectionTestMux(repo)

	req := httptest.NewRequest("POST", "/api/v1/sections/"+id+"/approve", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var section models.Section
	if err := json.Unmarshal(rec.Body.Bytes(), &section); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if section.Status != models.SectionLocked {
		t.Errorf("status = %q, want Locked", section.Status)
	}
}

func TestApproveEndpointReportsAllFailures(t *testing.T) {
	repo := &memSectionRepo{}
	id := seedSection(repo, models.SectionReview, "TODO")
	mux := newSectionTestMux(repo)

	req := httptest.NewRequest("POST", "/api/v1/sections/"+id+"/approve", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content type = %q", ct)
	}

	var body struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	want := []string{"Content is too short to lock.", "Section contains TODOs."}
	if len(body.Errors) != len(want) {
		t.Fatalf("errors = %v, want %v", body.Errors, want)
	}
	for i := range want {
		if body.Errors[i] != want[i] {
			t.Errorf("errors[%d] = %q, want %q", i, body.Errors[i], want[i])
		}
	}

	if repo.sections[id].Status != models.SectionReview {
		t.Errorf("section status changed to %q on failed approve", repo.sections[id].Status)
	}
}

func TestUpdateLockedSectionEndpoint(t *testing.T) {
	repo := &memSectionRepo{}
	id := seedSection(repo, models.SectionLocked, "Frozen final text for the monograph.")
	mux := newSectionTestMux(repo)

	req := httptest.NewRequest("PUT", "/api/v1/sections/"+id,
		strings.NewReader(`{"content_text":"tampering attempt"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if repo.sections[id].ContentText != "Frozen final text for the monograph." {
		t.Error("locked content was modified through the endpoint")
	}
}

func TestGetUnknownSectionEndpoint(t *testing.T) {
	repo := &memSectionRepo{sections: map[string]models.Section{}}
	mux := newSectionTestMux(repo)

	req := httptest.NewRequest("GET", "/api/v1/sections/nope", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var problem struct {
		Status int    `json:"status"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if problem.Status != http.StatusNotFound {
		t.Errorf("problem status = %d", problem.Status)
	}
}
