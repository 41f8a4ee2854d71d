package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"
)

// PostgresSectionRepository implements the SectionRepository interface
type PostgresSectionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(config *RepositoryConfig) repositories.SectionRepository {
	return &PostgresSectionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const sectionColumns = "id, project_id, title, version, status, content_text, order_index"

// Create inserts a new section
func (r *PostgresSectionRepository) Create(ctx context.Context, section *models.Section) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Sections, sectionColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		section.ID,
		section.ProjectID,
		section.Title,
		section.Version,
		section.Status,
		section.ContentText,
		section.OrderIndex,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("project %s: %w", section.ProjectID, domain.ErrNotFound)
		}
		return fmt.Errorf("create section: %w", err)
	}

	return nil
}

// GetByID retrieves a section by ID
func (r *PostgresSectionRepository) GetByID(ctx context.Context, id string) (*models.Section, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, sectionColumns, r.tables.Sections)

	var section models.Section
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&section.ID,
		&section.ProjectID,
		&section.Title,
		&section.Version,
		&section.Status,
		&section.ContentText,
		&section.OrderIndex,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get section: %w", err)
	}

	return &section, nil
}

// ListByProject retrieves a project's sections ordered by order_index
func (r *PostgresSectionRepository) ListByProject(ctx context.Context, projectID string) ([]models.Section, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1
		ORDER BY order_index
	`, sectionColumns, r.tables.Sections)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var section models.Section
		err := rows.Scan(
			&section.ID,
			&section.ProjectID,
			&section.Title,
			&section.Version,
			&section.Status,
			&section.ContentText,
			&section.OrderIndex,
		)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, section)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections: %w", err)
	}

	if sections == nil {
		sections = []models.Section{}
	}

	return sections, nil
}

// Update persists the section's content, version and status
func (r *PostgresSectionRepository) Update(ctx context.Context, section *models.Section) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, version = $2, status = $3, content_text = $4, order_index = $5
		WHERE id = $6
	`, r.tables.Sections)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		section.Title,
		section.Version,
		section.Status,
		section.ContentText,
		section.OrderIndex,
		section.ID,
	)
	if err != nil {
		return fmt.Errorf("update section: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("section %s: %w", section.ID, domain.ErrNotFound)
	}

	return nil
}
