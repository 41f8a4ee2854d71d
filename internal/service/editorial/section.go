// Package editorial owns the section lifecycle: the Draft -> Review ->
// Locked state machine, the consistency checks gating the Locked
// transition, and the monotonic content version.
package editorial

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"grantos/internal/config"
	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// SectionService manages the editorial lifecycle of document sections
type SectionService struct {
	sectionRepo repositories.SectionRepository
	advisor     Advisor
	logger      *slog.Logger
}

// NewSectionService creates a new section service. The advisor may be nil
// when no text-critique collaborator is configured.
func NewSectionService(
	sectionRepo repositories.SectionRepository,
	advisor Advisor,
	logger *slog.Logger,
) *SectionService {
	return &SectionService{
		sectionRepo: sectionRepo,
		advisor:     advisor,
		logger:      logger,
	}
}

// CreateSectionRequest is the input for creating a section
type CreateSectionRequest struct {
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
}

// CreateSection creates a new section under a project. Sections always
// start at status Draft, version 1, with empty content.
func (s *SectionService) CreateSection(ctx context.Context, projectID string, req *CreateSectionRequest) (*models.Section, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxProjectTitleLength)),
		validation.Field(&req.OrderIndex, validation.Min(0)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	section := &models.Section{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       strings.TrimSpace(req.Title),
		Version:     1,
		Status:      models.SectionDraft,
		ContentText: "",
		OrderIndex:  req.OrderIndex,
	}

	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}

	s.logger.Info("section created",
		"id", section.ID,
		"project_id", projectID,
		"title", section.Title,
	)

	return section, nil
}

// GetSection retrieves a section by ID
func (s *SectionService) GetSection(ctx context.Context, id string) (*models.Section, error) {
	return s.sectionRepo.GetByID(ctx, id)
}

// ListSections retrieves a project's sections ordered by order_index
func (s *SectionService) ListSections(ctx context.Context, projectID string) ([]models.Section, error) {
	return s.sectionRepo.ListByProject(ctx, projectID)
}

// UpdateContent replaces the section's content verbatim and increments
// the version by exactly 1, whether or not the text changed. Editing a
// Locked section is refused: locked content is frozen.
func (s *SectionService) UpdateContent(ctx context.Context, id, content string) (*models.Section, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if section.Status == models.SectionLocked {
		return nil, &domain.BusinessRuleError{Message: "Section is locked and cannot be edited"}
	}

	section.ContentText = content
	section.Version++

	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, err
	}

	s.logger.Info("section content updated",
		"id", section.ID,
		"version", section.Version,
	)

	return section, nil
}

// SubmitForReview moves a section to Review
func (s *SectionService) SubmitForReview(ctx context.Context, id string) (*models.Section, error) {
	return s.setStatus(ctx, id, models.SectionReview)
}

// Reject returns a section to Draft for rework
func (s *SectionService) Reject(ctx context.Context, id string) (*models.Section, error) {
	return s.setStatus(ctx, id, models.SectionDraft)
}

func (s *SectionService) setStatus(ctx context.Context, id string, status models.SectionStatus) (*models.Section, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	section.Status = status
	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, err
	}

	s.logger.Info("section status changed",
		"id", section.ID,
		"status", status,
	)

	return section, nil
}

// Approve attempts to lock a section. It runs the full consistency-check
// battery against current content; on any failure the section is returned
// unchanged together with the ordered failure messages - a normal result,
// not an error. When every check passes the section is persisted as
// Locked with an empty failure list.
//
// Approving an already-Locked section with unchanged content re-runs the
// checks against the frozen content and yields the same outcome, so the
// operation is idempotent.
func (s *SectionService) Approve(ctx context.Context, id string) (*models.Section, []string, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	failures := runLockChecks(section.ContentText)
	if len(failures) > 0 {
		s.logger.Info("section lock refused",
			"id", section.ID,
			"failures", len(failures),
		)
		return section, failures, nil
	}

	if section.Status != models.SectionLocked {
		section.Status = models.SectionLocked
		if err := s.sectionRepo.Update(ctx, section); err != nil {
			return nil, nil, err
		}

		s.logger.Info("section locked",
			"id", section.ID,
			"version", section.Version,
		)
	}

	return section, []string{}, nil
}
