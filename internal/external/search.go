// Package external holds the clients for the service's external
// collaborators: the web search provider, the generative text service and
// the PDF text extractor. Everything here sits behind a narrow interface
// so the ingestion pipeline and the review advisor can be tested with
// fakes and providers can be swapped without touching the services.
package external

import (
	"context"
	"time"
)

// SearchResult is one ranked result from the search provider
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchClient finds web results for a free-form query
type SearchClient interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// TextGenerator produces free text from a prompt. Implementations are
// expected to fail with an error on transport problems; callers at the
// ingestion boundary downgrade failures to empty results.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DefaultTimeout bounds a single external call when the caller supplies
// no tighter deadline
const DefaultTimeout = 30 * time.Second
