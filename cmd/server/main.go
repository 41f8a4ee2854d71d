package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"grantos/internal/config"
	"grantos/internal/external"
	"grantos/internal/handler"
	"grantos/internal/mediatypes"
	"grantos/internal/middleware"
	"grantos/internal/repository/postgres"
	"grantos/internal/service/archive"
	"grantos/internal/service/editorial"
	"grantos/internal/service/funding"
	"grantos/internal/service/planning"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)
	sectionRepo := postgres.NewSectionRepository(repoConfig)
	assetRepo := postgres.NewAssetRepository(repoConfig)
	oppRepo := postgres.NewOpportunityRepository(repoConfig)
	appRepo := postgres.NewApplicationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Media type registry (embedded config)
	typeRegistry, err := mediatypes.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load media type registry: %v", err)
	}

	// External collaborators. The generator is optional: without an API
	// key the review and extraction features degrade to empty results.
	searchClient := external.NewDuckDuckGoClientWithConfig(cfg.SearchBaseURL, cfg.ExternalCallTimeout)

	var generator external.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gen, err := external.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to create text generator: %v", err)
		}
		generator = gen
		logger.Info("text generator configured", "model", cfg.GeminiModel)
	} else {
		logger.Warn("GEMINI_API_KEY not set; review and extraction features disabled")
	}

	var advisor editorial.Advisor
	if generator != nil {
		advisor = editorial.NewLLMAdvisor(generator)
	}

	// Create services
	projectService := planning.NewProjectService(projectRepo, oppRepo, txManager, logger)
	dashboardService := planning.NewDashboardService(projectRepo, oppRepo, assetRepo, logger)
	sectionService := editorial.NewSectionService(sectionRepo, advisor, logger)
	archiveService := archive.NewService(assetRepo, projectRepo, txManager, typeRegistry, logger)
	fundingService := funding.NewService(oppRepo, appRepo, logger)
	ingestService := funding.NewIngestService(oppRepo, txManager, searchClient, generator, cfg.ExternalCallTimeout, logger)

	// Create handlers
	projectHandler := handler.NewProjectHandler(projectService, dashboardService, logger)
	sectionHandler := handler.NewSectionHandler(sectionService, logger)
	assetHandler := handler.NewAssetHandler(archiveService, logger)
	oppHandler := handler.NewOpportunityHandler(fundingService, ingestService, logger)
	appHandler := handler.NewApplicationHandler(fundingService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health checks
	mux.HandleFunc("GET /{$}", handler.Root)
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Project routes
	mux.HandleFunc("GET /api/v1/projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /api/v1/projects", projectHandler.CreateProject)
	mux.HandleFunc("DELETE /api/v1/projects/clear", projectHandler.ClearProjects) // Must come before {id} route
	mux.HandleFunc("GET /api/v1/projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("PATCH /api/v1/projects/{id}", projectHandler.UpdateProject)

	// Dashboard
	mux.HandleFunc("GET /api/v1/dashboard/stats", projectHandler.DashboardStats)

	// Section routes
	mux.HandleFunc("POST /api/v1/projects/{id}/sections", sectionHandler.CreateSection)
	mux.HandleFunc("GET /api/v1/projects/{id}/sections", sectionHandler.ListSections)
	mux.HandleFunc("GET /api/v1/sections/{id}", sectionHandler.GetSection)
	mux.HandleFunc("PUT /api/v1/sections/{id}", sectionHandler.UpdateContent)
	mux.HandleFunc("POST /api/v1/sections/{id}/submit", sectionHandler.SubmitForReview)
	mux.HandleFunc("POST /api/v1/sections/{id}/reject", sectionHandler.Reject)
	mux.HandleFunc("POST /api/v1/sections/{id}/approve", sectionHandler.Approve)
	mux.HandleFunc("POST /api/v1/sections/{id}/lock", sectionHandler.Approve) // Legacy alias
	mux.HandleFunc("POST /api/v1/sections/{id}/review", sectionHandler.Review)

	// Asset routes
	mux.HandleFunc("POST /api/v1/projects/{id}/scan", assetHandler.ScanDirectory)
	mux.HandleFunc("GET /api/v1/projects/{id}/assets", assetHandler.ListAssets)
	mux.HandleFunc("PUT /api/v1/assets/{id}", assetHandler.UpdateAsset)

	// Opportunity routes
	mux.HandleFunc("POST /api/v1/opportunities", oppHandler.CreateOpportunity)
	mux.HandleFunc("GET /api/v1/opportunities", oppHandler.ListOpportunities)
	mux.HandleFunc("POST /api/v1/opportunities/research", oppHandler.Research)
	mux.HandleFunc("POST /api/v1/opportunities/import", oppHandler.ImportText)
	mux.HandleFunc("POST /api/v1/opportunities/import/file", oppHandler.ImportFile)
	mux.HandleFunc("GET /api/v1/opportunities/{id}", oppHandler.GetOpportunity)

	// Application routes
	mux.HandleFunc("POST /api/v1/applications", appHandler.CreateApplication)
	mux.HandleFunc("GET /api/v1/applications/{id}", appHandler.GetApplication)
	mux.HandleFunc("PUT /api/v1/applications/{id}", appHandler.UpdateApplication)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → RequestLogger → Routes
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
