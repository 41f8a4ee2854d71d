package repositories

import (
	"context"
	"time"

	"grantos/internal/domain/models"
)

// OpportunityRepository defines data access operations for funding
// opportunities
type OpportunityRepository interface {
	// Create inserts a new opportunity. Returns domain.ConflictError when
	// an opportunity with the same (funder_name, programme_name) exists.
	Create(ctx context.Context, opp *models.FundingOpportunity) error

	// CreateIfAbsent inserts a new opportunity unless one with the same
	// (funder_name, programme_name) exists. Reports whether the row was
	// inserted. Unlike Create, a lost uniqueness race is not an error and
	// leaves a surrounding transaction usable.
	CreateIfAbsent(ctx context.Context, opp *models.FundingOpportunity) (bool, error)

	// GetByID retrieves an opportunity by ID
	GetByID(ctx context.Context, id string) (*models.FundingOpportunity, error)

	// GetByNames retrieves an opportunity by exact funder and programme name
	GetByNames(ctx context.Context, funderName, programmeName string) (*models.FundingOpportunity, error)

	// List retrieves all opportunities ordered by deadline
	List(ctx context.Context) ([]models.FundingOpportunity, error)

	// ListUpcoming retrieves the n opportunities with the nearest deadlines
	// on or after the given date
	ListUpcoming(ctx context.Context, from time.Time, n int) ([]models.FundingOpportunity, error)

	// Count returns the number of opportunities
	Count(ctx context.Context) (int, error)

	// DeleteAll removes every opportunity, cascading to applications
	DeleteAll(ctx context.Context) error
}

// ApplicationRepository defines data access operations for application
// packages
type ApplicationRepository interface {
	// Create inserts a new application package. Returns
	// domain.ConflictError when the opportunity already has one.
	Create(ctx context.Context, app *models.ApplicationPackage) error

	// GetByID retrieves an application package by ID
	GetByID(ctx context.Context, id string) (*models.ApplicationPackage, error)

	// GetByOpportunity retrieves the application for an opportunity
	GetByOpportunity(ctx context.Context, opportunityID string) (*models.ApplicationPackage, error)

	// Update persists the application's mutable fields
	Update(ctx context.Context, app *models.ApplicationPackage) error
}
