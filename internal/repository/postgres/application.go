package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"
)

// PostgresApplicationRepository implements the ApplicationRepository
// interface
type PostgresApplicationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(config *RepositoryConfig) repositories.ApplicationRepository {
	return &PostgresApplicationRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const applicationColumns = "id, opportunity_id, narrative_draft, budget_json, submission_status, final_approval"

// Create inserts a new application package
func (r *PostgresApplicationRepository) Create(ctx context.Context, app *models.ApplicationPackage) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Applications, applicationColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		app.ID,
		app.OpportunityID,
		app.NarrativeDraft,
		app.BudgetJSON,
		app.SubmissionStatus,
		app.FinalApproval,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			conflict := &domain.ConflictError{
				Message:      "Application already exists for this opportunity",
				ResourceType: "application",
			}
			if existing, queryErr := r.GetByOpportunity(ctx, app.OpportunityID); queryErr == nil && existing != nil {
				conflict.ResourceID = existing.ID
			}
			return conflict
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("opportunity %s: %w", app.OpportunityID, domain.ErrNotFound)
		}
		return fmt.Errorf("create application: %w", err)
	}

	return nil
}

// GetByID retrieves an application package by ID
func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id string) (*models.ApplicationPackage, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, applicationColumns, r.tables.Applications)

	return r.queryOne(ctx, query, id)
}

// GetByOpportunity retrieves the application for an opportunity
func (r *PostgresApplicationRepository) GetByOpportunity(ctx context.Context, opportunityID string) (*models.ApplicationPackage, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE opportunity_id = $1
	`, applicationColumns, r.tables.Applications)

	return r.queryOne(ctx, query, opportunityID)
}

func (r *PostgresApplicationRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.ApplicationPackage, error) {
	var app models.ApplicationPackage
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&app.ID,
		&app.OpportunityID,
		&app.NarrativeDraft,
		&app.BudgetJSON,
		&app.SubmissionStatus,
		&app.FinalApproval,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("application: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get application: %w", err)
	}

	return &app, nil
}

// Update persists the application's mutable fields
func (r *PostgresApplicationRepository) Update(ctx context.Context, app *models.ApplicationPackage) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET narrative_draft = $1, budget_json = $2, submission_status = $3, final_approval = $4
		WHERE id = $5
	`, r.tables.Applications)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		app.NarrativeDraft,
		app.BudgetJSON,
		app.SubmissionStatus,
		app.FinalApproval,
		app.ID,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("application %s: %w", app.ID, domain.ErrNotFound)
	}

	return nil
}
