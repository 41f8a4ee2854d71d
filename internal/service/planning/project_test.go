package planning

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"
)

// fakeProjectRepo is an in-memory ProjectRepository
type fakeProjectRepo struct {
	projects map[string]models.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]models.Project)}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	copied := p
	return &copied, nil
}

func (r *fakeProjectRepo) List(_ context.Context) ([]models.Project, error) {
	out := []models.Project{}
	for _, p := range r.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProjectRepo) ListRecent(ctx context.Context, n int) ([]models.Project, error) {
	all, _ := r.List(ctx)
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *models.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) Count(_ context.Context) (int, error) {
	return len(r.projects), nil
}

func (r *fakeProjectRepo) DeleteAll(_ context.Context) error {
	r.projects = make(map[string]models.Project)
	return nil
}

// fakeOppRepo records DeleteAll calls; the rest is unused here
type fakeOppRepo struct {
	deleteAllCalled bool
}

func (r *fakeOppRepo) Create(_ context.Context, _ *models.FundingOpportunity) error { return nil }
func (r *fakeOppRepo) CreateIfAbsent(_ context.Context, _ *models.FundingOpportunity) (bool, error) {
	return true, nil
}
func (r *fakeOppRepo) GetByID(_ context.Context, id string) (*models.FundingOpportunity, error) {
	return nil, fmt.Errorf("opportunity %s: %w", id, domain.ErrNotFound)
}
func (r *fakeOppRepo) GetByNames(_ context.Context, f, p string) (*models.FundingOpportunity, error) {
	return nil, fmt.Errorf("opportunity %s/%s: %w", f, p, domain.ErrNotFound)
}
func (r *fakeOppRepo) List(_ context.Context) ([]models.FundingOpportunity, error) {
	return []models.FundingOpportunity{}, nil
}
func (r *fakeOppRepo) ListUpcoming(_ context.Context, _ time.Time, _ int) ([]models.FundingOpportunity, error) {
	return []models.FundingOpportunity{}, nil
}
func (r *fakeOppRepo) Count(_ context.Context) (int, error) { return 0, nil }
func (r *fakeOppRepo) DeleteAll(_ context.Context) error {
	r.deleteAllCalled = true
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func newTestService() (*ProjectService, *fakeProjectRepo, *fakeOppRepo) {
	projectRepo := newFakeProjectRepo()
	oppRepo := &fakeOppRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProjectService(projectRepo, oppRepo, passthroughTxManager{}, logger), projectRepo, oppRepo
}

func TestCreateProject(t *testing.T) {
	svc, _, _ := newTestService()

	project, err := svc.CreateProject(context.Background(), &CreateProjectRequest{
		Title:         "  Ubuntu in Frame  ",
		StartDate:     "2026-01-15",
		PrintDeadline: "2026-11-30",
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if project.Title != "Ubuntu in Frame" {
		t.Errorf("title = %q, want trimmed", project.Title)
	}
	if project.Status != models.ProjectPlanning {
		t.Errorf("status = %q, want %q", project.Status, models.ProjectPlanning)
	}
	if project.StartDate == nil || project.StartDate.Format("2006-01-02") != "2026-01-15" {
		t.Errorf("start date = %v", project.StartDate)
	}
	if project.LaunchDate != nil {
		t.Errorf("launch date = %v, want nil for omitted field", project.LaunchDate)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name string
		req  CreateProjectRequest
	}{
		{"empty title", CreateProjectRequest{Title: ""}},
		{"malformed date", CreateProjectRequest{Title: "T", StartDate: "15/01/2026"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateProject(context.Background(), &tt.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestUpdateProjectPartial(t *testing.T) {
	svc, _, _ := newTestService()

	project, err := svc.CreateProject(context.Background(), &CreateProjectRequest{
		Title:     "Ubuntu in Frame",
		StartDate: "2026-01-15",
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	status := "In Progress"
	updated, err := svc.UpdateProject(context.Background(), project.ID, &UpdateProjectRequest{
		Status: &status,
	})
	if err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	if updated.Status != models.ProjectInProgress {
		t.Errorf("status = %q, want In Progress", updated.Status)
	}
	if updated.Title != "Ubuntu in Frame" {
		t.Errorf("untouched title changed to %q", updated.Title)
	}
	if updated.StartDate == nil {
		t.Error("untouched start date was cleared")
	}

	bad := "Shipped"
	if _, err := svc.UpdateProject(context.Background(), project.ID, &UpdateProjectRequest{
		Status: &bad,
	}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("invalid status err = %v, want validation error", err)
	}
}

func TestClearAll(t *testing.T) {
	svc, projectRepo, oppRepo := newTestService()

	if _, err := svc.CreateProject(context.Background(), &CreateProjectRequest{Title: "A"}); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if err := svc.ClearAll(context.Background()); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	if count, _ := projectRepo.Count(context.Background()); count != 0 {
		t.Errorf("projects remaining after clear: %d", count)
	}
	if !oppRepo.deleteAllCalled {
		t.Error("funding data was not cleared")
	}
}
