package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"
)

// PostgresAssetRepository implements the AssetRepository interface
type PostgresAssetRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(config *RepositoryConfig) repositories.AssetRepository {
	return &PostgresAssetRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const assetColumns = "id, project_id, type, file_path, rights_status, credit_line, usage_scope, is_selected_for_book"

// Create inserts a new asset
func (r *PostgresAssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Assets, assetColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		asset.ID,
		asset.ProjectID,
		asset.Type,
		asset.FilePath,
		asset.RightsStatus,
		asset.CreditLine,
		asset.UsageScope,
		asset.SelectedForBook,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("asset already indexed at %s", asset.FilePath),
				ResourceType: "asset",
			}
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("project %s: %w", asset.ProjectID, domain.ErrNotFound)
		}
		return fmt.Errorf("create asset: %w", err)
	}

	return nil
}

// GetByID retrieves an asset by ID
func (r *PostgresAssetRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, assetColumns, r.tables.Assets)

	var asset models.Asset
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&asset.ID,
		&asset.ProjectID,
		&asset.Type,
		&asset.FilePath,
		&asset.RightsStatus,
		&asset.CreditLine,
		&asset.UsageScope,
		&asset.SelectedForBook,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}

	return &asset, nil
}

// ListByProject retrieves all assets for a project
func (r *PostgresAssetRepository) ListByProject(ctx context.Context, projectID string) ([]models.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1
		ORDER BY file_path
	`, assetColumns, r.tables.Assets)

	return r.queryAssets(ctx, query, projectID)
}

// ListRecent retrieves the n most recently indexed assets
func (r *PostgresAssetRepository) ListRecent(ctx context.Context, n int) ([]models.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at DESC
		LIMIT %d
	`, assetColumns, r.tables.Assets, n)

	return r.queryAssets(ctx, query)
}

func (r *PostgresAssetRepository) queryAssets(ctx context.Context, query string, args ...interface{}) ([]models.Asset, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var asset models.Asset
		err := rows.Scan(
			&asset.ID,
			&asset.ProjectID,
			&asset.Type,
			&asset.FilePath,
			&asset.RightsStatus,
			&asset.CreditLine,
			&asset.UsageScope,
			&asset.SelectedForBook,
		)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}

	if assets == nil {
		assets = []models.Asset{}
	}

	return assets, nil
}

// ExistsByPath reports whether an asset is already indexed at the path
func (r *PostgresAssetRepository) ExistsByPath(ctx context.Context, projectID, filePath string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE project_id = $1 AND file_path = $2
		)
	`, r.tables.Assets)

	var exists bool
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, projectID, filePath).Scan(&exists); err != nil {
		return false, fmt.Errorf("check asset path: %w", err)
	}

	return exists, nil
}

// Update persists the asset's metadata fields
func (r *PostgresAssetRepository) Update(ctx context.Context, asset *models.Asset) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET rights_status = $1, credit_line = $2, usage_scope = $3, is_selected_for_book = $4
		WHERE id = $5
	`, r.tables.Assets)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		asset.RightsStatus,
		asset.CreditLine,
		asset.UsageScope,
		asset.SelectedForBook,
		asset.ID,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("asset %s: %w", asset.ID, domain.ErrNotFound)
	}

	return nil
}

// Count returns the number of assets
func (r *PostgresAssetRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.tables.Assets)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}

	return count, nil
}
