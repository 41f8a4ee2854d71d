package funding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"grantos/internal/config"
	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/domain/repositories"
	"grantos/internal/external"

	"github.com/google/uuid"
)

// Defaults applied when the research endpoint is called without
// parameters, matching the production deployment's behavior
const (
	defaultResearchQuery  = "film documentary arts grants"
	defaultResearchRegion = "South Africa"
)

// IngestService converts unstructured input - search results, pasted
// text, uploaded files - into funding opportunity records. It is a
// best-effort integration shim: search and extraction failures are
// logged and produce zero results rather than surfacing to the caller,
// and dedupe is by exact truncated funder/programme name.
type IngestService struct {
	oppRepo     repositories.OpportunityRepository
	txManager   repositories.TransactionManager
	search      external.SearchClient
	generator   external.TextGenerator
	callTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// NewIngestService creates a new ingestion service. The search client and
// generator may be nil when the corresponding collaborator is not
// configured; the affected pipeline stages then yield zero results.
func NewIngestService(
	oppRepo repositories.OpportunityRepository,
	txManager repositories.TransactionManager,
	search external.SearchClient,
	generator external.TextGenerator,
	callTimeout time.Duration,
	logger *slog.Logger,
) *IngestService {
	if callTimeout <= 0 {
		callTimeout = external.DefaultTimeout
	}
	return &IngestService{
		oppRepo:     oppRepo,
		txManager:   txManager,
		search:      search,
		generator:   generator,
		callTimeout: callTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Research discovers funding opportunities from web sources: it searches
// for the query scoped to the region, feeds the ranked results to the
// extraction step and persists whatever comes back.
func (s *IngestService) Research(ctx context.Context, query, region string) ([]models.FundingOpportunity, error) {
	if strings.TrimSpace(query) == "" {
		query = defaultResearchQuery
	}
	if strings.TrimSpace(region) == "" {
		region = defaultResearchRegion
	}

	if s.search == nil {
		s.logger.Warn("research requested but no search client configured")
		return []models.FundingOpportunity{}, nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	results, err := s.search.Search(searchCtx, fmt.Sprintf("%s %s funding", query, region))
	if err != nil {
		s.logger.Warn("search failed, returning zero results",
			"query", query,
			"error", err,
		)
		return []models.FundingOpportunity{}, nil
	}

	if len(results) == 0 {
		return []models.FundingOpportunity{}, nil
	}

	var corpus strings.Builder
	for i, r := range results {
		fmt.Fprintf(&corpus, "%d. %s\n%s\n%s\n\n", i+1, r.Title, r.URL, r.Snippet)
	}

	return s.ingest(ctx, corpus.String())
}

// ImportText extracts funding opportunities from pasted raw text
func (s *IngestService) ImportText(ctx context.Context, text string) ([]models.FundingOpportunity, error) {
	return s.ingest(ctx, text)
}

// ImportFile extracts funding opportunities from an uploaded file.
// PDFs are extracted page-by-page and concatenated; everything else is
// decoded as text. Unlike search and extraction failures, an unreadable
// file is surfaced to the caller.
func (s *IngestService) ImportFile(ctx context.Context, data []byte, filename string) ([]models.FundingOpportunity, error) {
	var text string

	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		extracted, err := external.ExtractPDFText(data)
		if err != nil {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("could not parse PDF file %q", filename)}
		}
		text = extracted
	} else {
		if !utf8.Valid(data) {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("file %q is not valid text", filename)}
		}
		text = string(data)
	}

	return s.ingest(ctx, text)
}

// ingest runs extraction over the corpus and persists the new records in
// one transaction, skipping duplicates by exact truncated names.
func (s *IngestService) ingest(ctx context.Context, corpus string) ([]models.FundingOpportunity, error) {
	if strings.TrimSpace(corpus) == "" {
		return []models.FundingOpportunity{}, nil
	}

	if s.generator == nil {
		s.logger.Warn("import requested but no text generator configured")
		return []models.FundingOpportunity{}, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	raw, err := s.generator.Generate(genCtx, buildExtractionPrompt(corpus))
	if err != nil {
		s.logger.Warn("extraction call failed, returning zero results", "error", err)
		return []models.FundingOpportunity{}, nil
	}

	records, err := ParseOpportunityJSON(raw)
	if err != nil {
		s.logger.Warn("extraction response was not a JSON array, returning zero results",
			"error", err,
			"response_len", len(raw),
		)
		return []models.FundingOpportunity{}, nil
	}

	var created []models.FundingOpportunity
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		for _, record := range records {
			opp, err := s.persistCandidate(txCtx, record)
			if err != nil {
				return err
			}
			if opp != nil {
				created = append(created, *opp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ingestion complete",
		"candidates", len(records),
		"created", len(created),
	)

	if created == nil {
		created = []models.FundingOpportunity{}
	}

	return created, nil
}

// persistCandidate stores one extracted record unless it is empty or a
// duplicate. Returns (nil, nil) for skipped candidates.
func (s *IngestService) persistCandidate(ctx context.Context, record ExtractedOpportunity) (*models.FundingOpportunity, error) {
	funder := truncate(strings.TrimSpace(record.FunderName), config.MaxFunderNameLength)
	programme := truncate(strings.TrimSpace(record.ProgrammeName), config.MaxProgrammeNameLength)
	if funder == "" || programme == "" {
		return nil, nil
	}

	// Exact-name dedupe against the truncated values
	if _, err := s.oppRepo.GetByNames(ctx, funder, programme); err == nil {
		return nil, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	deadline := parseDeadline(record.Deadline)
	if deadline == nil {
		d := s.now().AddDate(0, 0, config.DefaultDeadlineDays)
		deadline = &d
	}

	opp := &models.FundingOpportunity{
		ID:            uuid.NewString(),
		FunderName:    funder,
		ProgrammeName: programme,
		Deadline:      deadline,
		Status:        models.FundingToReview,
		EligibilityCriteria: map[string]any{
			"source":             record.SourceURL,
			"description":        record.Description,
			"requirements":       record.Requirements,
			"required_documents": record.RequiredDocuments,
		},
		BudgetRules: map[string]any{},
	}

	// Conflict-free insert: a concurrent ingestion winning the race for
	// the same names is a skip, and the batch transaction stays usable
	inserted, err := s.oppRepo.CreateIfAbsent(ctx, opp)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, nil
	}

	return opp, nil
}
