// Package search implements the web-search capability exposed to the
// model as a tool. It scrapes the DuckDuckGo HTML endpoint and flattens
// the top results into a single text block.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultBaseURL is DuckDuckGo's no-JS HTML search endpoint.
	DefaultBaseURL = "https://duckduckgo.com/html/"

	userAgent  = "Mozilla/5.0 (compatible)"
	maxResults = 3
)

// FetchError reports that the search provider could not be reached or
// returned something other than an HTML page. Callers surface it to the
// client as an error event instead of tearing down the connection.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("search: fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Result is a single extracted search hit, in provider ranking order.
type Result struct {
	Title   string
	Snippet string
	Link    string
}

// Searcher abstracts the search provider so orchestrators can be tested
// against a stub.
type Searcher interface {
	// Search returns the formatted top results for a non-empty query.
	// An empty string with a nil error means the provider returned no
	// results.
	Search(ctx context.Context, query string) (string, error)
}

// DuckDuckGo is a Searcher backed by a live scrape of the DuckDuckGo
// HTML results page. Every call performs one outbound request; there is
// no caching and no retry.
type DuckDuckGo struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a DuckDuckGo searcher.
type Option func(*DuckDuckGo)

// WithBaseURL overrides the provider endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(d *DuckDuckGo) { d.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client used for provider requests.
func WithHTTPClient(client *http.Client) Option {
	return func(d *DuckDuckGo) { d.httpClient = client }
}

// WithLogger overrides the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *DuckDuckGo) { d.logger = logger }
}

// NewDuckDuckGo creates a searcher with sane defaults.
func NewDuckDuckGo(opts ...Option) *DuckDuckGo {
	d := &DuckDuckGo{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search fetches the results page for query and returns the top results
// flattened as "title\nsnippet\nlink" blocks separated by blank lines.
// A query with no results returns "" and logs a warning.
func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", fmt.Errorf("search: query must not be empty")
	}

	doc, err := d.fetch(ctx, query)
	if err != nil {
		return "", err
	}

	results := extractResults(doc)
	if len(results) == 0 {
		d.logger.Warn("no results found", "query", query)
		return "", nil
	}

	return Format(results), nil
}

func (d *DuckDuckGo) fetch(ctx context.Context, query string) (*goquery.Document, error) {
	searchURL := d.baseURL + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &FetchError{URL: searchURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: searchURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: searchURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := checkTextual(resp.Header.Get("Content-Type")); err != nil {
		return nil, &FetchError{URL: searchURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: searchURL, Err: err}
	}

	return doc, nil
}

// checkTextual rejects responses that cannot be parsed as HTML text.
func checkTextual(contentType string) error {
	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("unparseable content type %q", contentType)
	}
	if mediaType != "text/html" && mediaType != "text/plain" {
		return fmt.Errorf("expected HTML but got %q", mediaType)
	}
	return nil
}

// extractResults pulls the top result blocks out of the results page.
// The selectors match DuckDuckGo's HTML endpoint markup.
func extractResults(doc *goquery.Document) []Result {
	var results []Result
	blocks := doc.Find(".result")
	blocks.Slice(0, min(blocks.Length(), maxResults)).Each(func(_ int, sel *goquery.Selection) {
		link, _ := sel.Find(".result__a").Attr("href")
		results = append(results, Result{
			Title:   strings.TrimSpace(sel.Find(".result__a").Text()),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").Text()),
			Link:    link,
		})
	})
	return results
}

// Format flattens results into the text block handed to the model.
func Format(results []Result) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("%s\n%s\n%s", r.Title, r.Snippet, r.Link))
	}
	return strings.Join(blocks, "\n\n")
}
