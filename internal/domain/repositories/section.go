package repositories

import (
	"context"

	"grantos/internal/domain/models"
)

// SectionRepository defines data access operations for sections
type SectionRepository interface {
	// Create inserts a new section
	Create(ctx context.Context, section *models.Section) error

	// GetByID retrieves a section by ID
	GetByID(ctx context.Context, id string) (*models.Section, error)

	// ListByProject retrieves a project's sections ordered by order_index
	ListByProject(ctx context.Context, projectID string) ([]models.Section, error)

	// Update persists the section's content, version and status
	Update(ctx context.Context, section *models.Section) error
}
