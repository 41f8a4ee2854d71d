package repositories

import (
	"context"

	"grantos/internal/domain/models"
)

// AssetRepository defines data access operations for indexed media assets
type AssetRepository interface {
	// Create inserts a new asset. Returns domain.ConflictError when the
	// (project_id, file_path) pair is already indexed.
	Create(ctx context.Context, asset *models.Asset) error

	// GetByID retrieves an asset by ID
	GetByID(ctx context.Context, id string) (*models.Asset, error)

	// ListByProject retrieves all assets for a project
	ListByProject(ctx context.Context, projectID string) ([]models.Asset, error)

	// ExistsByPath reports whether an asset is already indexed at the path
	ExistsByPath(ctx context.Context, projectID, filePath string) (bool, error)

	// Update persists the asset's metadata fields
	Update(ctx context.Context, asset *models.Asset) error

	// ListRecent retrieves the n most recently indexed assets
	ListRecent(ctx context.Context, n int) ([]models.Asset, error)

	// Count returns the number of assets
	Count(ctx context.Context) (int, error)
}
