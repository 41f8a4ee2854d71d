package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"
)

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const projectColumns = "id, title, status, start_date, print_deadline, launch_date, created_at, updated_at"

// Create inserts a new project
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Projects, projectColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		project.ID,
		project.Title,
		project.Status,
		project.StartDate,
		project.PrintDeadline,
		project.LaunchDate,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by ID
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, projectColumns, r.tables.Projects)

	var project models.Project
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Title,
		&project.Status,
		&project.StartDate,
		&project.PrintDeadline,
		&project.LaunchDate,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// List retrieves all projects ordered by created_at DESC
func (r *PostgresProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	return r.list(ctx, 0)
}

// ListRecent retrieves the n most recently created projects
func (r *PostgresProjectRepository) ListRecent(ctx context.Context, n int) ([]models.Project, error) {
	return r.list(ctx, n)
}

func (r *PostgresProjectRepository) list(ctx context.Context, limit int) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at DESC
	`, projectColumns, r.tables.Projects)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Status,
			&project.StartDate,
			&project.PrintDeadline,
			&project.LaunchDate,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	if projects == nil {
		projects = []models.Project{}
	}

	return projects, nil
}

// Update persists the project's mutable fields
func (r *PostgresProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, status = $2, start_date = $3, print_deadline = $4, launch_date = $5, updated_at = $6
		WHERE id = $7
	`, r.tables.Projects)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		project.Title,
		project.Status,
		project.StartDate,
		project.PrintDeadline,
		project.LaunchDate,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
	}

	return nil
}

// Count returns the number of projects
func (r *PostgresProjectRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.tables.Projects)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}

	return count, nil
}

// DeleteAll removes every project, cascading to sections and assets
func (r *PostgresProjectRepository) DeleteAll(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", r.tables.Projects)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query); err != nil {
		return fmt.Errorf("delete all projects: %w", err)
	}

	return nil
}
