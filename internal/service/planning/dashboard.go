package planning

import (
	"context"
	"log/slog"
	"time"

	"grantos/internal/config"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"
)

// DashboardCounts holds the aggregate entity counts
type DashboardCounts struct {
	Projects      int `json:"projects"`
	Opportunities int `json:"opportunities"`
	Assets        int `json:"assets"`
}

// DashboardStats is the aggregate view served at /dashboard/stats
type DashboardStats struct {
	Counts            DashboardCounts             `json:"counts"`
	RecentProjects    []models.Project            `json:"recent_projects"`
	UpcomingDeadlines []models.FundingOpportunity `json:"upcoming_deadlines"`
	RecentAssets      []models.Asset              `json:"recent_assets"`
}

// DashboardService aggregates counts and recent/upcoming items
type DashboardService struct {
	projectRepo repositories.ProjectRepository
	oppRepo     repositories.OpportunityRepository
	assetRepo   repositories.AssetRepository
	logger      *slog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	projectRepo repositories.ProjectRepository,
	oppRepo repositories.OpportunityRepository,
	assetRepo repositories.AssetRepository,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		projectRepo: projectRepo,
		oppRepo:     oppRepo,
		assetRepo:   assetRepo,
		logger:      logger,
	}
}

// startOfDay returns midnight of t's calendar date in t's own location.
// Truncating to 24h would cut on the UTC day boundary instead and shift
// which deadlines count as upcoming.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Stats assembles the dashboard aggregates
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	projectCount, err := s.projectRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	oppCount, err := s.oppRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	assetCount, err := s.assetRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	recentProjects, err := s.projectRepo.ListRecent(ctx, config.DashboardItemLimit)
	if err != nil {
		return nil, err
	}

	today := startOfDay(time.Now())
	upcoming, err := s.oppRepo.ListUpcoming(ctx, today, config.DashboardItemLimit)
	if err != nil {
		return nil, err
	}

	recentAssets, err := s.assetRepo.ListRecent(ctx, config.DashboardItemLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Counts: DashboardCounts{
			Projects:      projectCount,
			Opportunities: oppCount,
			Assets:        assetCount,
		},
		RecentProjects:    recentProjects,
		UpcomingDeadlines: upcoming,
		RecentAssets:      recentAssets,
	}, nil
}
