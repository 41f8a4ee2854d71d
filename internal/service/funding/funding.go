// Package funding manages funding opportunities, application packages and
// the opportunity ingestion pipeline.
package funding

import (
	"context"
	"errors"
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

// Service manages opportunity and application CRUD
type Service struct {
	oppRepo repositories.OpportunityRepository
	appRepo repositories.ApplicationRepository
	logger  *slog.Logger
}

// NewService creates a new funding service
func NewService(
	oppRepo repositories.OpportunityRepository,
	appRepo repositories.ApplicationRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		oppRepo: oppRepo,
		appRepo: appRepo,
		logger:  logger,
	}
}

// CreateOpportunityRequest is the input for creating an opportunity
type CreateOpportunityRequest struct {
	FunderName    string `json:"funder_name"`
	ProgrammeName string `json:"programme_name"`
	Deadline      string `json:"deadline"` // YYYY-MM-DD
}

// CreateOpportunity creates a new funding opportunity with status
// "To Review"
func (s *Service) CreateOpportunity(ctx context.Context, req *CreateOpportunityRequest) (*models.FundingOpportunity, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.FunderName, validation.Required, validation.Length(1, config.MaxFunderNameLength)),
		validation.Field(&req.ProgrammeName, validation.Required, validation.Length(1, config.MaxProgrammeNameLength)),
		validation.Field(&req.Deadline, validation.Required, validation.Date("2006-01-02")),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid deadline", domain.ErrValidation)
	}

	opp := &models.FundingOpportunity{
		ID:                  uuid.NewString(),
		FunderName:          strings.TrimSpace(req.FunderName),
		ProgrammeName:       strings.TrimSpace(req.ProgrammeName),
		Deadline:            &deadline,
		Status:              models.FundingToReview,
		EligibilityCriteria: map[string]any{},
		BudgetRules:         map[string]any{},
	}

	if err := s.oppRepo.Create(ctx, opp); err != nil {
		return nil, err
	}

	s.logger.Info("opportunity created",
		"id", opp.ID,
		"funder", opp.FunderName,
		"programme", opp.ProgrammeName,
	)

	return opp, nil
}

// GetOpportunity retrieves an opportunity by ID
func (s *Service) GetOpportunity(ctx context.Context, id string) (*models.FundingOpportunity, error) {
	return s.oppRepo.GetByID(ctx, id)
}

// ListOpportunities retrieves all opportunities ordered by deadline
func (s *Service) ListOpportunities(ctx context.Context) ([]models.FundingOpportunity, error) {
	return s.oppRepo.List(ctx)
}

// CreateApplication creates the draft application package for an
// opportunity. At most one application may exist per opportunity; a
// duplicate is a business-rule violation, and the storage-level unique
// constraint closes the race two concurrent creations would otherwise
// win together.
func (s *Service) CreateApplication(ctx context.Context, opportunityID string) (*models.ApplicationPackage, error) {
	// Distinguish "opportunity missing" (404) from "duplicate" (400)
	if _, err := s.oppRepo.GetByID(ctx, opportunityID); err != nil {
		return nil, err
	}

	app := &models.ApplicationPackage{
		ID:               uuid.NewString(),
		OpportunityID:    opportunityID,
		NarrativeDraft:   "",
		BudgetJSON:       map[string]any{},
		SubmissionStatus: models.SubmissionDraft,
		FinalApproval:    false,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, &domain.BusinessRuleError{Message: "Application already exists for this opportunity"}
		}
		return nil, err
	}

	s.logger.Info("application created",
		"id", app.ID,
		"opportunity_id", opportunityID,
	)

	return app, nil
}

// GetApplication retrieves an application package by ID
func (s *Service) GetApplication(ctx context.Context, id string) (*models.ApplicationPackage, error) {
	return s.appRepo.GetByID(ctx, id)
}

// UpdateApplicationRequest carries partial updates for an application.
// A nil field is left unchanged, never cleared.
type UpdateApplicationRequest struct {
	NarrativeDraft   *string        `json:"narrative_draft"`
	BudgetJSON       map[string]any `json:"budget_json"`
	SubmissionStatus *string        `json:"submission_status"`
	FinalApproval    *bool          `json:"final_approval"`
}

// UpdateApplication applies a partial update to an application package
func (s *Service) UpdateApplication(ctx context.Context, id string, req *UpdateApplicationRequest) (*models.ApplicationPackage, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NarrativeDraft != nil {
		app.NarrativeDraft = *req.NarrativeDraft
	}
	if req.BudgetJSON != nil {
		app.BudgetJSON = req.BudgetJSON
	}
	if req.SubmissionStatus != nil {
		status := models.SubmissionStatus(*req.SubmissionStatus)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid submission status %q", domain.ErrValidation, *req.SubmissionStatus)
		}
		app.SubmissionStatus = status
	}
	if req.FinalApproval != nil {
		app.FinalApproval = *req.FinalApproval
	}

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info("application updated",
		"id", app.ID,
		"status", app.SubmissionStatus,
	)

	return app, nil
}
