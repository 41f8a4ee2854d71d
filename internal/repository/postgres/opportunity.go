package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"
)

// PostgresOpportunityRepository implements the OpportunityRepository
// interface
type PostgresOpportunityRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewOpportunityRepository creates a new opportunity repository
func NewOpportunityRepository(config *RepositoryConfig) repositories.OpportunityRepository {
	return &PostgresOpportunityRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const opportunityColumns = "id, funder_name, programme_name, deadline, status, eligibility_criteria, budget_rules"

// Create inserts a new opportunity
func (r *PostgresOpportunityRepository) Create(ctx context.Context, opp *models.FundingOpportunity) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Opportunities, opportunityColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		opp.ID,
		opp.FunderName,
		opp.ProgrammeName,
		opp.Deadline,
		opp.Status,
		opp.EligibilityCriteria,
		opp.BudgetRules,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			existing, queryErr := r.GetByNames(ctx, opp.FunderName, opp.ProgrammeName)
			conflict := &domain.ConflictError{
				Message:      fmt.Sprintf("opportunity '%s / %s' already exists", opp.FunderName, opp.ProgrammeName),
				ResourceType: "opportunity",
			}
			if queryErr == nil && existing != nil {
				conflict.ResourceID = existing.ID
			}
			return conflict
		}
		return fmt.Errorf("create opportunity: %w", err)
	}

	return nil
}

// CreateIfAbsent inserts a new opportunity unless the names are taken.
// ON CONFLICT DO NOTHING keeps a lost race from poisoning the enclosing
// transaction, so batch ingestion can treat it as a plain skip.
func (r *PostgresOpportunityRepository) CreateIfAbsent(ctx context.Context, opp *models.FundingOpportunity) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (funder_name, programme_name) DO NOTHING
	`, r.tables.Opportunities, opportunityColumns)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		opp.ID,
		opp.FunderName,
		opp.ProgrammeName,
		opp.Deadline,
		opp.Status,
		opp.EligibilityCriteria,
		opp.BudgetRules,
	)
	if err != nil {
		return false, fmt.Errorf("create opportunity: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// GetByID retrieves an opportunity by ID
func (r *PostgresOpportunityRepository) GetByID(ctx context.Context, id string) (*models.FundingOpportunity, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, opportunityColumns, r.tables.Opportunities)

	return r.queryOne(ctx, query, id)
}

// GetByNames retrieves an opportunity by exact funder and programme name
func (r *PostgresOpportunityRepository) GetByNames(ctx context.Context, funderName, programmeName string) (*models.FundingOpportunity, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE funder_name = $1 AND programme_name = $2
	`, opportunityColumns, r.tables.Opportunities)

	return r.queryOne(ctx, query, funderName, programmeName)
}

func (r *PostgresOpportunityRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.FundingOpportunity, error) {
	var opp models.FundingOpportunity
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&opp.ID,
		&opp.FunderName,
		&opp.ProgrammeName,
		&opp.Deadline,
		&opp.Status,
		&opp.EligibilityCriteria,
		&opp.BudgetRules,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("opportunity: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get opportunity: %w", err)
	}

	return &opp, nil
}

// List retrieves all opportunities ordered by deadline
func (r *PostgresOpportunityRepository) List(ctx context.Context) ([]models.FundingOpportunity, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY deadline NULLS LAST
	`, opportunityColumns, r.tables.Opportunities)

	return r.queryMany(ctx, query)
}

// ListUpcoming retrieves the n opportunities with the nearest deadlines on
// or after the given date
func (r *PostgresOpportunityRepository) ListUpcoming(ctx context.Context, from time.Time, n int) ([]models.FundingOpportunity, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deadline >= $1
		ORDER BY deadline
		LIMIT %d
	`, opportunityColumns, r.tables.Opportunities, n)

	return r.queryMany(ctx, query, from)
}

func (r *PostgresOpportunityRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.FundingOpportunity, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	var opps []models.FundingOpportunity
	for rows.Next() {
		var opp models.FundingOpportunity
		err := rows.Scan(
			&opp.ID,
			&opp.FunderName,
			&opp.ProgrammeName,
			&opp.Deadline,
			&opp.Status,
			&opp.EligibilityCriteria,
			&opp.BudgetRules,
		)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		opps = append(opps, opp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate opportunities: %w", err)
	}

	if opps == nil {
		opps = []models.FundingOpportunity{}
	}

	return opps, nil
}

// Count returns the number of opportunities
func (r *PostgresOpportunityRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.tables.Opportunities)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count opportunities: %w", err)
	}

	return count, nil
}

// DeleteAll removes every opportunity, cascading to applications
func (r *PostgresOpportunityRepository) DeleteAll(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", r.tables.Opportunities)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query); err != nil {
		return fmt.Errorf("delete all opportunities: %w", err)
	}

	return nil
}
