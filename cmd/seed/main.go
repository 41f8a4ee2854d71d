package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"grantos/internal/config"
	"grantos/internal/repository/postgres"
	"grantos/internal/service/editorial"
	"grantos/internal/service/funding"
	"grantos/internal/service/planning"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed sample data")
	clearData := flag.Bool("clear-data", false, "Clear all projects and funding data (keep schema)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, cfg.TablePrefix); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)
	sectionRepo := postgres.NewSectionRepository(repoConfig)
	oppRepo := postgres.NewOpportunityRepository(repoConfig)
	appRepo := postgres.NewApplicationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	projectService := planning.NewProjectService(projectRepo, oppRepo, txManager, logger)

	if *clearData {
		log.Println("🧹 Clearing existing projects and funding data...")
		if err := projectService.ClearAll(ctx); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	sectionService := editorial.NewSectionService(sectionRepo, nil, logger)
	fundingService := funding.NewService(oppRepo, appRepo, logger)

	log.Println("📝 Seeding sample project and sections...")

	project, err := projectService.CreateProject(ctx, &planning.CreateProjectRequest{
		Title:         "Ubuntu in Frame: A Photographic Monograph",
		StartDate:     "2026-01-15",
		PrintDeadline: "2026-11-30",
		LaunchDate:    "2027-02-01",
	})
	if err != nil {
		log.Fatalf("Failed to seed project: %v", err)
	}

	sectionTitles := []string{
		"Introduction",
		"Chapter 1: Origins",
		"Chapter 2: The Archive",
		"Acknowledgements",
	}
	for i, title := range sectionTitles {
		if _, err := sectionService.CreateSection(ctx, project.ID, &editorial.CreateSectionRequest{
			Title:      title,
			OrderIndex: i,
		}); err != nil {
			log.Fatalf("Failed to seed section %q: %v", title, err)
		}
	}

	log.Println("💰 Seeding sample funding opportunity...")

	opp, err := fundingService.CreateOpportunity(ctx, &funding.CreateOpportunityRequest{
		FunderName:    "National Arts Council",
		ProgrammeName: "Visual Arts Publication Grant",
		Deadline:      "2026-10-31",
	})
	if err != nil {
		log.Fatalf("Failed to seed opportunity: %v", err)
	}

	if _, err := fundingService.CreateApplication(ctx, opp.ID); err != nil {
		log.Fatalf("Failed to seed application: %v", err)
	}

	log.Printf("✅ Seed complete (project: %s)", project.ID)
}

// dropAllTables drops the application tables for the given prefix,
// children before parents.
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, prefix string) error {
	dropSQL := fmt.Sprintf(`
		DROP TABLE IF EXISTS %sapplication_packages CASCADE;
		DROP TABLE IF EXISTS %sfunding_opportunities CASCADE;
		DROP TABLE IF EXISTS %sassets CASCADE;
		DROP TABLE IF EXISTS %ssections CASCADE;
		DROP TABLE IF EXISTS %sprojects CASCADE;
	`, prefix, prefix, prefix, prefix, prefix)

	_, err := pool.Exec(ctx, dropSQL)
	return err
}
