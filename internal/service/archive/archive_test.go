package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"
	"grantos/internal/mediatypes"
)

// fakeAssetRepo is an in-memory AssetRepository keyed by (project, path)
type fakeAssetRepo struct {
	assets map[string]models.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]models.Asset)}
}

func (r *fakeAssetRepo) Create(_ context.Context, asset *models.Asset) error {
	for _, a := range r.assets {
		if a.ProjectID == asset.ProjectID && a.FilePath == asset.FilePath {
			return &domain.ConflictError{Message: "Asset already indexed"}
		}
	}
	r.assets[asset.ID] = *asset
	return nil
}

func (r *fakeAssetRepo) GetByID(_ context.Context, id string) (*models.Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	copied := a
	return &copied, nil
}

func (r *fakeAssetRepo) ListByProject(_ context.Context, projectID string) ([]models.Asset, error) {
	out := []models.Asset{}
	for _, a := range r.assets {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) ExistsByPath(_ context.Context, projectID, filePath string) (bool, error) {
	for _, a := range r.assets {
		if a.ProjectID == projectID && a.FilePath == filePath {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAssetRepo) Update(_ context.Context, asset *models.Asset) error {
	if _, ok := r.assets[asset.ID]; !ok {
		return fmt.Errorf("asset %s: %w", asset.ID, domain.ErrNotFound)
	}
	r.assets[asset.ID] = *asset
	return nil
}

func (r *fakeAssetRepo) ListRecent(_ context.Context, n int) ([]models.Asset, error) {
	out := []models.Asset{}
	for _, a := range r.assets {
		out = append(out, a)
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *fakeAssetRepo) Count(_ context.Context) (int, error) {
	return len(r.assets), nil
}

// fakeProjectRepo knows one project
type fakeProjectRepo struct {
	project models.Project
}

func (r *fakeProjectRepo) Create(_ context.Context, _ *models.Project) error { return nil }

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*models.Project, error) {
	if id != r.project.ID {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	copied := r.project
	return &copied, nil
}

func (r *fakeProjectRepo) List(_ context.Context) ([]models.Project, error) {
	return []models.Project{r.project}, nil
}

func (r *fakeProjectRepo) ListRecent(_ context.Context, _ int) ([]models.Project, error) {
	return []models.Project{r.project}, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, _ *models.Project) error { return nil }
func (r *fakeProjectRepo) Count(_ context.Context) (int, error)              { return 1, nil }
func (r *fakeProjectRepo) DeleteAll(_ context.Context) error                 { return nil }

type passthroughTxManager struct{}

func (passthroughTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func newTestService(t *testing.T) (*Service, *fakeAssetRepo) {
	t.Helper()

	registry, err := mediatypes.NewRegistry()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}

	assetRepo := newFakeAssetRepo()
	projectRepo := &fakeProjectRepo{project: models.Project{
		ID:        "proj-1",
		Title:     "Ubuntu in Frame",
		Status:    models.ProjectPlanning,
		CreatedAt: time.Now(),
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(assetRepo, projectRepo, passthroughTxManager{}, registry, logger), assetRepo
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestScanDirectoryClassifiesByExtension(t *testing.T) {
	svc, _ := newTestService(t)

	dir := t.TempDir()
	writeFiles(t, dir, "cover.jpg", "interview.mp3", "contract.pdf", "notes.txt", "raw/scan.PNG")

	created, err := svc.ScanDirectory(context.Background(), "proj-1", dir)
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}

	// notes.txt has no recognized extension and is skipped
	if len(created) != 4 {
		t.Fatalf("indexed %d assets, want 4", len(created))
	}

	byType := map[models.AssetType]int{}
	for _, a := range created {
		byType[a.Type]++
		if a.RightsStatus != models.RightsUnknown {
			t.Errorf("%s: rights = %q, want %q", a.FilePath, a.RightsStatus, models.RightsUnknown)
		}
		if a.UsageScope != models.UsagePrint {
			t.Errorf("%s: scope = %q, want %q", a.FilePath, a.UsageScope, models.UsagePrint)
		}
	}

	if byType[models.AssetPhoto] != 2 {
		t.Errorf("photos = %d, want 2 (jpg + nested PNG)", byType[models.AssetPhoto])
	}
	if byType[models.AssetAudio] != 1 {
		t.Errorf("audio = %d, want 1", byType[models.AssetAudio])
	}
	if byType[models.AssetVerificationDoc] != 1 {
		t.Errorf("verification docs = %d, want 1", byType[models.AssetVerificationDoc])
	}
}

func TestScanDirectoryRescanSkipsKnownFiles(t *testing.T) {
	svc, repo := newTestService(t)

	dir := t.TempDir()
	writeFiles(t, dir, "cover.jpg", "poster.png")

	first, err := svc.ScanDirectory(context.Background(), "proj-1", dir)
	if err != nil {
		t.Fatalf("first scan failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first scan indexed %d, want 2", len(first))
	}

	writeFiles(t, dir, "new.mp3")

	second, err := svc.ScanDirectory(context.Background(), "proj-1", dir)
	if err != nil {
		t.Fatalf("second scan failed: %v", err)
	}
	if len(second) != 1 {
		t.Errorf("second scan indexed %d, want only the new file", len(second))
	}

	if count, _ := repo.Count(context.Background()); count != 3 {
		t.Errorf("repo holds %d assets, want 3", count)
	}
}

func TestScanDirectoryUnknownProject(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ScanDirectory(context.Background(), "no-such-project", t.TempDir())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestScanDirectoryMissingPath(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ScanDirectory(context.Background(), "proj-1", filepath.Join(t.TempDir(), "does-not-exist"))
	var ruleErr *domain.BusinessRuleError
	if !errors.As(err, &ruleErr) {
		t.Errorf("err = %v, want BusinessRuleError", err)
	}
}

func TestUpdateAsset(t *testing.T) {
	svc, repo := newTestService(t)
	repo.assets["asset-1"] = models.Asset{
		ID:           "asset-1",
		ProjectID:    "proj-1",
		Type:         models.AssetPhoto,
		FilePath:     "/archive/cover.jpg",
		RightsStatus: models.RightsUnknown,
		UsageScope:   models.UsagePrint,
	}

	cleared := "Cleared"
	credit := "© 2026 N. Dlamini"
	selected := true
	updated, err := svc.UpdateAsset(context.Background(), "asset-1", &UpdateAssetRequest{
		RightsStatus:    &cleared,
		CreditLine:      &credit,
		SelectedForBook: &selected,
	})
	if err != nil {
		t.Fatalf("UpdateAsset failed: %v", err)
	}

	if updated.RightsStatus != models.RightsCleared {
		t.Errorf("rights = %q, want Cleared", updated.RightsStatus)
	}
	if updated.CreditLine == nil || *updated.CreditLine != credit {
		t.Errorf("credit line = %v, want %q", updated.CreditLine, credit)
	}
	if !updated.SelectedForBook {
		t.Error("selected_for_book not applied")
	}
	if updated.UsageScope != models.UsagePrint {
		t.Errorf("untouched scope changed to %q", updated.UsageScope)
	}

	bad := "Public Domain"
	if _, err := svc.UpdateAsset(context.Background(), "asset-1", &UpdateAssetRequest{
		RightsStatus: &bad,
	}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("invalid rights err = %v, want validation error", err)
	}
}
