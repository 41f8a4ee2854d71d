// Package planning manages monograph projects and the dashboard
// aggregates.
package planning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"grantos/internal/config"
	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ProjectService manages project CRUD and the bulk clear utility
type ProjectService struct {
	projectRepo repositories.ProjectRepository
	oppRepo     repositories.OpportunityRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	oppRepo repositories.OpportunityRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		oppRepo:     oppRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateProjectRequest is the input for creating a project.
// Dates use the YYYY-MM-DD layout.
type CreateProjectRequest struct {
	Title         string `json:"title"`
	StartDate     string `json:"start_date"`
	PrintDeadline string `json:"print_deadline"`
	LaunchDate    string `json:"launch_date"`
}

// CreateProject creates a new project in the Planning phase
func (s *ProjectService) CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxProjectTitleLength)),
		validation.Field(&req.StartDate, validation.Date("2006-01-02")),
		validation.Field(&req.PrintDeadline, validation.Date("2006-01-02")),
		validation.Field(&req.LaunchDate, validation.Date("2006-01-02")),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	project := &models.Project{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(req.Title),
		Status:        models.ProjectPlanning,
		StartDate:     parseOptionalDate(req.StartDate),
		PrintDeadline: parseOptionalDate(req.PrintDeadline),
		LaunchDate:    parseOptionalDate(req.LaunchDate),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"title", project.Title,
	)

	return project, nil
}

// GetProject retrieves a project by ID
func (s *ProjectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects retrieves all projects, most recent first
func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.projectRepo.List(ctx)
}

// UpdateProjectRequest carries partial updates for a project.
// A nil field is left unchanged, never cleared.
type UpdateProjectRequest struct {
	Title         *string `json:"title"`
	Status        *string `json:"status"`
	StartDate     *string `json:"start_date"`
	PrintDeadline *string `json:"print_deadline"`
	LaunchDate    *string `json:"launch_date"`
}

// UpdateProject applies a partial update to a project
func (s *ProjectService) UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > config.MaxProjectTitleLength {
			return nil, fmt.Errorf("%w: invalid title", domain.ErrValidation)
		}
		project.Title = title
	}
	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid project status %q", domain.ErrValidation, *req.Status)
		}
		project.Status = status
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		project.StartDate = d
	}
	if req.PrintDeadline != nil {
		d, err := parseDate(*req.PrintDeadline)
		if err != nil {
			return nil, err
		}
		project.PrintDeadline = d
	}
	if req.LaunchDate != nil {
		d, err := parseDate(*req.LaunchDate)
		if err != nil {
			return nil, err
		}
		project.LaunchDate = d
	}

	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", project.ID,
		"status", project.Status,
	)

	return project, nil
}

// ClearAll removes every project (cascading to sections and assets) and
// every funding opportunity (cascading to applications). Dev utility.
func (s *ProjectService) ClearAll(ctx context.Context) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.oppRepo.DeleteAll(txCtx); err != nil {
			return err
		}
		return s.projectRepo.DeleteAll(txCtx)
	})
	if err != nil {
		return err
	}

	s.logger.Warn("all projects and funding data cleared")
	return nil
}

// parseOptionalDate parses a pre-validated YYYY-MM-DD string, returning
// nil for empty input
func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// parseDate parses a YYYY-MM-DD string, rejecting malformed input
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", domain.ErrValidation, s)
	}
	return &t, nil
}
