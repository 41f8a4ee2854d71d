package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultDuckDuckGoBaseURL is the HTML (non-JS) results endpoint
	DefaultDuckDuckGoBaseURL = "https://html.duckduckgo.com/html/"

	// A browser user agent; the HTML endpoint rejects default Go clients
	duckDuckGoUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// DuckDuckGoClient implements SearchClient by scraping the DuckDuckGo
// HTML results page.
type DuckDuckGoClient struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewDuckDuckGoClient creates a new DuckDuckGo search client
func NewDuckDuckGoClient() *DuckDuckGoClient {
	return NewDuckDuckGoClientWithConfig(DefaultDuckDuckGoBaseURL, DefaultTimeout)
}

// NewDuckDuckGoClientWithConfig creates a client with custom configuration
func NewDuckDuckGoClientWithConfig(baseURL string, timeout time.Duration) *DuckDuckGoClient {
	return &DuckDuckGoClient{
		baseURL:    baseURL,
		maxResults: 10,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search implements SearchClient
func (c *DuckDuckGoClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", duckDuckGoUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search error (status %d): %s", resp.StatusCode, string(body))
	}

	return c.parseResults(resp.Body)
}

// parseResults extracts ranked results from the HTML results page.
// Result blocks are div.result; title and URL come from a.result__a,
// the snippet from a.result__snippet.
func (c *DuckDuckGoClient) parseResults(body io.Reader) ([]SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var results []SearchResult
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		titleTag := s.Find("a.result__a").First()
		snippetTag := s.Find("a.result__snippet").First()
		if titleTag.Length() == 0 || snippetTag.Length() == 0 {
			return true
		}

		href, _ := titleTag.Attr("href")
		results = append(results, SearchResult{
			Title:   strings.TrimSpace(titleTag.Text()),
			URL:     href,
			Snippet: strings.TrimSpace(snippetTag.Text()),
		})

		return len(results) < c.maxResults
	})

	return results, nil
}
