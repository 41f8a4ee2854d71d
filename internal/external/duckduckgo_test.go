package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="result">
  <a class="result__a" href="https://whickersworld.org">The Whickers | Documentary Funding</a>
  <a class="result__snippet">Funding awards for first-time documentary directors.</a>
</div>
<div class="result">
  <a class="result__a" href="https://docsociety.org">Doc Society Grants</a>
  <a class="result__snippet">Grants for independent non-fiction film.</a>
</div>
<div class="result">
  <a class="result__a" href="https://ad.example.com">Sponsored result without snippet</a>
</div>
</body></html>`

func TestSearchParsesResults(t *testing.T) {
	var gotQuery, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotQuery = r.PostFormValue("q")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	client := NewDuckDuckGoClientWithConfig(server.URL, time.Second)
	results, err := client.Search(context.Background(), "documentary grants")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotQuery != "documentary grants" {
		t.Errorf("posted query = %q", gotQuery)
	}
	if gotUA == "" || gotUA == "Go-http-client/1.1" {
		t.Errorf("user agent = %q, want a browser UA", gotUA)
	}

	// The snippetless block is dropped
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Title != "The Whickers | Documentary Funding" {
		t.Errorf("title = %q", results[0].Title)
	}
	if results[0].URL != "https://whickersworld.org" {
		t.Errorf("url = %q", results[0].URL)
	}
	if results[1].Snippet != "Grants for independent non-fiction film." {
		t.Errorf("snippet = %q", results[1].Snippet)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewDuckDuckGoClientWithConfig(server.URL, time.Second)
	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestSearchCapsResults(t *testing.T) {
	page := "<html><body>"
	for i := 0; i < 15; i++ {
		page += `<div class="result"><a class="result__a" href="https://example.com">t</a><a class="result__snippet">s</a></div>`
	}
	page += "</body></html>"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	client := NewDuckDuckGoClientWithConfig(server.URL, time.Second)
	results, err := client.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 10 {
		t.Errorf("got %d results, want capped at 10", len(results))
	}
}
