package repositories

import (
	"context"

	"grantos/internal/domain/models"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create inserts a new project
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// List retrieves all projects, ordered by created_at DESC
	List(ctx context.Context) ([]models.Project, error)

	// ListRecent retrieves the n most recently created projects
	ListRecent(ctx context.Context, n int) ([]models.Project, error)

	// Update persists the project's mutable fields
	Update(ctx context.Context, project *models.Project) error

	// Count returns the number of projects
	Count(ctx context.Context) (int, error)

	// DeleteAll removes every project, cascading to sections and assets
	DeleteAll(ctx context.Context) error
}
