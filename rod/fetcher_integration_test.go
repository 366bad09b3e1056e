//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/goquery"
	"github.com/fwojciec/sitecrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><body>
<div id="nav">Loading...</div>
<script>
document.getElementById('nav').innerHTML = '<a href="/rendered.html">Rendered</a>';
</script>
</body></html>`))
	}))
	defer srv.Close()

	fetcher := rod.NewFetcher()
	defer fetcher.Close()

	html, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, html, `href="/rendered.html"`)
	assert.NotContains(t, html, "Loading...")
}

func TestFetcher_Fetch_TimeoutTriggersOnSlowPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	fetcher := rod.NewFetcher(rod.WithTimeout(50 * time.Millisecond))
	defer fetcher.Close()

	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
}

func TestFetcher_crawls_links_added_by_script(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>
document.body.innerHTML = '<a href="/a.html">A</a>';
</script></body></html>`))
	})
	mux.HandleFunc("/a.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fetcher := rod.NewFetcher(rod.WithMaxPages(1))
	defer fetcher.Close()

	seed, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	// WithMaxPages(1) relaunches Chrome between the two pages.
	c := &crawl.Crawler{Fetcher: fetcher, Links: goquery.NewLinkExtractor()}

	assert.Equal(t, 2, c.Count(context.Background(), seed))
}
