package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="result">
  <a class="result__a" href="https://example.com/one"> First title </a>
  <div class="result__snippet"> First snippet </div>
</div>
<div class="result">
  <a class="result__a" href="https://example.com/two">Second title</a>
  <div class="result__snippet">Second snippet</div>
</div>
<div class="result">
  <a class="result__a" href="https://example.com/three">Third title</a>
  <div class="result__snippet">Third snippet</div>
</div>
<div class="result">
  <a class="result__a" href="https://example.com/four">Fourth title</a>
  <div class="result__snippet">Fourth snippet</div>
</div>
</body></html>`

func newTestSearcher(t *testing.T, handler http.HandlerFunc) *DuckDuckGo {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewDuckDuckGo(
		WithBaseURL(srv.URL+"/html/"),
		WithHTTPClient(srv.Client()),
		WithLogger(slog.New(slog.DiscardHandler)),
	)
}

func TestSearchReturnsTopThreeFormatted(t *testing.T) {
	var gotQuery string
	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, resultsPage)
	})

	out, err := searcher.Search(context.Background(), "weather in Paris")
	require.NoError(t, err)

	assert.Equal(t, "weather in Paris", gotQuery)
	assert.Equal(t,
		"First title\nFirst snippet\nhttps://example.com/one\n\n"+
			"Second title\nSecond snippet\nhttps://example.com/two\n\n"+
			"Third title\nThird snippet\nhttps://example.com/three",
		out)
	assert.NotContains(t, out, "Fourth title")
}

func TestSearchNoResultsReturnsEmpty(t *testing.T) {
	searcher := newTestSearcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><p>no hits</p></body></html>")
	})

	out, err := searcher.Search(context.Background(), "gibberish")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSearchNonHTMLBodyFails(t *testing.T) {
	searcher := newTestSearcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"unexpected": true}`)
	})

	_, err := searcher.Search(context.Background(), "anything")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestSearchBadStatusFails(t *testing.T) {
	searcher := newTestSearcher(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := searcher.Search(context.Background(), "anything")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestSearchUnreachableProviderFails(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	searcher := NewDuckDuckGo(
		WithBaseURL(url+"/html/"),
		WithLogger(slog.New(slog.DiscardHandler)),
	)

	_, err := searcher.Search(context.Background(), "anything")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.NotNil(t, fetchErr.Err)
}

func TestSearchEmptyQueryRejected(t *testing.T) {
	searcher := NewDuckDuckGo(WithLogger(slog.New(slog.DiscardHandler)))
	_, err := searcher.Search(context.Background(), "")
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format([]Result{
		{Title: "a", Snippet: "b", Link: "c"},
		{Title: "d", Snippet: "e", Link: "f"},
	})
	assert.Equal(t, "a\nb\nc\n\nd\ne\nf", out)
}
