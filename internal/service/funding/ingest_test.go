package funding

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"grantos/internal/domain"
	"grantos/internal/domain/models"
	"grantos/internal/external"
)

// fakeSearchClient returns canned results or an error
type fakeSearchClient struct {
	results []external.SearchResult
	err     error
	queries []string
}

func (c *fakeSearchClient) Search(_ context.Context, query string) ([]external.SearchResult, error) {
	c.queries = append(c.queries, query)
	return c.results, c.err
}

// fakeGenerator returns a canned response or an error
type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.response, g.err
}

const whickersResponse = `[
	{
		"programme_name": "Film & TV Funding Award",
		"funder_name": "Whickers",
		"deadline": "2026-01-31",
		"source_url": "https://whickersworld.org",
		"description": "Funding for first-time documentary directors.",
		"requirements": ["first feature documentary", "director attached"],
		"required_documents": ["budget", "treatment"]
	}
]`

func newIngestFixture(search external.SearchClient, generator external.TextGenerator) (*IngestService, *fakeOpportunityRepo) {
	repo := newFakeOpportunityRepo()
	svc := NewIngestService(repo, passthroughTxManager{}, search, generator, time.Second, testLogger())
	return svc, repo
}

func TestResearchCreatesOpportunities(t *testing.T) {
	search := &fakeSearchClient{results: []external.SearchResult{
		{Title: "The Whickers", URL: "https://whickersworld.org", Snippet: "Documentary funding award"},
	}}
	gen := &fakeGenerator{response: whickersResponse}
	svc, repo := newIngestFixture(search, gen)

	created, err := svc.Research(context.Background(), "documentary film fund", "UK")
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}

	if len(created) != 1 {
		t.Fatalf("created %d opportunities, want 1", len(created))
	}

	opp := created[0]
	if opp.FunderName != "Whickers" {
		t.Errorf("funder = %q, want Whickers", opp.FunderName)
	}
	if opp.Deadline == nil || opp.Deadline.Format("2006-01-02") != "2026-01-31" {
		t.Errorf("deadline = %v, want 2026-01-31", opp.Deadline)
	}
	if opp.EligibilityCriteria["source"] != "https://whickersworld.org" {
		t.Errorf("eligibility source = %v", opp.EligibilityCriteria["source"])
	}
	if _, err := repo.GetByNames(context.Background(), "Whickers", "Film & TV Funding Award"); err != nil {
		t.Errorf("opportunity not persisted: %v", err)
	}
}

func TestResearchAppliesDefaults(t *testing.T) {
	search := &fakeSearchClient{}
	svc, _ := newIngestFixture(search, &fakeGenerator{response: "[]"})

	if _, err := svc.Research(context.Background(), "", ""); err != nil {
		t.Fatalf("Research failed: %v", err)
	}

	if len(search.queries) != 1 {
		t.Fatalf("search called %d times, want 1", len(search.queries))
	}
	want := "film documentary arts grants South Africa funding"
	if search.queries[0] != want {
		t.Errorf("query = %q, want %q", search.queries[0], want)
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	gen := &fakeGenerator{response: whickersResponse}
	svc, repo := newIngestFixture(nil, gen)

	first, err := svc.ImportText(context.Background(), "The Whickers fund documentaries.")
	if err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first import created %d, want 1", len(first))
	}

	second, err := svc.ImportText(context.Background(), "The Whickers fund documentaries.")
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second import created %d, want 0", len(second))
	}

	count, _ := repo.Count(context.Background())
	if count != 1 {
		t.Errorf("repo holds %d opportunities, want 1", count)
	}
}

func TestIngestDowngradesFailures(t *testing.T) {
	tests := []struct {
		name   string
		search external.SearchClient
		gen    external.TextGenerator
	}{
		{
			name:   "search failure",
			search: &fakeSearchClient{err: errors.New("connection refused")},
			gen:    &fakeGenerator{response: whickersResponse},
		},
		{
			name:   "generator failure",
			search: &fakeSearchClient{results: []external.SearchResult{{Title: "t", URL: "u", Snippet: "s"}}},
			gen:    &fakeGenerator{err: errors.New("quota exceeded")},
		},
		{
			name:   "unparseable response",
			search: &fakeSearchClient{results: []external.SearchResult{{Title: "t", URL: "u", Snippet: "s"}}},
			gen:    &fakeGenerator{response: "Sorry, I found nothing useful."},
		},
		{
			name:   "no generator configured",
			search: &fakeSearchClient{results: []external.SearchResult{{Title: "t", URL: "u", Snippet: "s"}}},
			gen:    nil,
		},
		{
			name:   "no search client configured",
			search: nil,
			gen:    &fakeGenerator{response: whickersResponse},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newIngestFixture(tt.search, tt.gen)

			created, err := svc.Research(context.Background(), "docs", "UK")
			if err != nil {
				t.Fatalf("Research returned error: %v", err)
			}
			if len(created) != 0 {
				t.Errorf("created %d opportunities, want 0", len(created))
			}
			if count, _ := repo.Count(context.Background()); count != 0 {
				t.Errorf("repo holds %d opportunities, want 0", count)
			}
		})
	}
}

func TestIngestDefaultDeadline(t *testing.T) {
	gen := &fakeGenerator{response: `[{"programme_name":"Open Call","funder_name":"Doc Society","deadline":"rolling basis"}]`}
	svc, _ := newIngestFixture(nil, gen)

	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	created, err := svc.ImportText(context.Background(), "Doc Society open call")
	if err != nil {
		t.Fatalf("ImportText failed: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d, want 1", len(created))
	}

	want := fixed.AddDate(0, 0, 90)
	if created[0].Deadline == nil || !created[0].Deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", created[0].Deadline, want)
	}
}

// blindOpportunityRepo hides existing rows from the name pre-check, so
// the insert itself has to resolve the duplicate. Models a concurrent
// ingestion committing the same names between check and insert.
type blindOpportunityRepo struct {
	*fakeOpportunityRepo
}

func (r *blindOpportunityRepo) GetByNames(_ context.Context, funderName, programmeName string) (*models.FundingOpportunity, error) {
	return nil, fmt.Errorf("opportunity %s/%s: %w", funderName, programmeName, domain.ErrNotFound)
}

func TestIngestLostRaceIsSkipped(t *testing.T) {
	repo := &blindOpportunityRepo{fakeOpportunityRepo: newFakeOpportunityRepo()}
	gen := &fakeGenerator{response: whickersResponse}
	svc := NewIngestService(repo, passthroughTxManager{}, nil, gen, time.Second, testLogger())

	first, err := svc.ImportText(context.Background(), "The Whickers fund documentaries.")
	if err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first import created %d, want 1", len(first))
	}

	// Pre-check cannot see the row; the batch must still complete with
	// the duplicate silently skipped
	second, err := svc.ImportText(context.Background(), "The Whickers fund documentaries.")
	if err != nil {
		t.Fatalf("re-import after lost race failed: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("re-import created %d, want 0", len(second))
	}

	count, _ := repo.Count(context.Background())
	if count != 1 {
		t.Errorf("repo holds %d opportunities, want 1", count)
	}
}

func TestIngestSkipsEmptyNames(t *testing.T) {
	gen := &fakeGenerator{response: `[
		{"programme_name":"","funder_name":"Nameless"},
		{"programme_name":"  ","funder_name":"Whitespace"},
		{"programme_name":"Real Fund","funder_name":"Real Funder","deadline":"2026-06-30"}
	]`}
	svc, _ := newIngestFixture(nil, gen)

	created, err := svc.ImportText(context.Background(), "mixed quality records")
	if err != nil {
		t.Fatalf("ImportText failed: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d, want 1", len(created))
	}
	if created[0].FunderName != "Real Funder" {
		t.Errorf("funder = %q", created[0].FunderName)
	}
}

func TestImportFileRejectsBinary(t *testing.T) {
	svc, _ := newIngestFixture(nil, &fakeGenerator{response: "[]"})

	_, err := svc.ImportFile(context.Background(), []byte{0xff, 0xfe, 0x00, 0x01}, "notes.bin")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestImportFileRejectsBrokenPDF(t *testing.T) {
	svc, _ := newIngestFixture(nil, &fakeGenerator{response: "[]"})

	_, err := svc.ImportFile(context.Background(), []byte("not a pdf"), "grants.pdf")
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}
