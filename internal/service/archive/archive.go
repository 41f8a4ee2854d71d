// Package archive indexes media files under a project's directory tree
// and tracks their rights metadata.
package archive

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"
	"grantos/internal/mediatypes"

	"github.com/google/uuid"
)

// Service scans directories for assets and manages their metadata
type Service struct {
	assetRepo   repositories.AssetRepository
	projectRepo repositories.ProjectRepository
	txManager   repositories.TransactionManager
	types       *mediatypes.Registry
	logger      *slog.Logger
}

// NewService creates a new archive service
func NewService(
	assetRepo repositories.AssetRepository,
	projectRepo repositories.ProjectRepository,
	txManager repositories.TransactionManager,
	types *mediatypes.Registry,
	logger *slog.Logger,
) *Service {
	return &Service{
		assetRepo:   assetRepo,
		projectRepo: projectRepo,
		txManager:   txManager,
		types:       types,
		logger:      logger,
	}
}

// ScanDirectory walks the directory tree, classifies files by extension
// and indexes the ones not already known. Unrecognized extensions are
// skipped. All new assets are inserted in one transaction and returned.
func (s *Service) ScanDirectory(ctx context.Context, projectID, directoryPath string) ([]models.Asset, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	info, err := os.Stat(directoryPath)
	if err != nil || !info.IsDir() {
		return nil, &domain.BusinessRuleError{Message: fmt.Sprintf("Directory not found: %s", directoryPath)}
	}

	var candidates []models.Asset
	walkErr := filepath.WalkDir(directoryPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		assetType, ok := s.types.Classify(filepath.Ext(path))
		if !ok {
			return nil
		}

		candidates = append(candidates, models.Asset{
			ID:           uuid.NewString(),
			ProjectID:    projectID,
			Type:         assetType,
			FilePath:     path,
			RightsStatus: models.RightsUnknown,
			UsageScope:   models.UsagePrint,
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan directory: %w", walkErr)
	}

	created := []models.Asset{}
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		for _, asset := range candidates {
			exists, err := s.assetRepo.ExistsByPath(txCtx, projectID, asset.FilePath)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			if err := s.assetRepo.Create(txCtx, &asset); err != nil {
				return err
			}
			created = append(created, asset)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("directory scanned",
		"project_id", projectID,
		"path", directoryPath,
		"indexed", len(created),
	)

	return created, nil
}

// ListAssets retrieves all assets for a project
func (s *Service) ListAssets(ctx context.Context, projectID string) ([]models.Asset, error) {
	return s.assetRepo.ListByProject(ctx, projectID)
}

// UpdateAssetRequest carries partial metadata updates for an asset.
// A nil field is left unchanged.
type UpdateAssetRequest struct {
	RightsStatus    *string `json:"rights_status"`
	CreditLine      *string `json:"credit_line"`
	UsageScope      *string `json:"usage_scope"`
	SelectedForBook *bool   `json:"is_selected_for_book"`
}

// UpdateAsset applies a partial metadata update to an asset
func (s *Service) UpdateAsset(ctx context.Context, id string, req *UpdateAssetRequest) (*models.Asset, error) {
	asset, err := s.assetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RightsStatus != nil {
		status := models.RightsStatus(*req.RightsStatus)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid rights status %q", domain.ErrValidation, *req.RightsStatus)
		}
		asset.RightsStatus = status
	}
	if req.CreditLine != nil {
		asset.CreditLine = req.CreditLine
	}
	if req.UsageScope != nil {
		scope := models.UsageScope(*req.UsageScope)
		if scope != models.UsagePrint && scope != models.UsageDigital && scope != models.UsageBoth {
			return nil, fmt.Errorf("%w: invalid usage scope %q", domain.ErrValidation, *req.UsageScope)
		}
		asset.UsageScope = scope
	}
	if req.SelectedForBook != nil {
		asset.SelectedForBook = *req.SelectedForBook
	}

	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, err
	}

	s.logger.Info("asset updated",
		"id", asset.ID,
		"rights_status", asset.RightsStatus,
	)

	return asset, nil
}
