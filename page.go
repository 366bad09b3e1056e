package sitecrawl

import (
	"context"
	"net/url"
	"time"
)

// Page represents a successfully fetched HTML page.
type Page struct {
	URL         string    `json:"url"`
	HTML        string    `json:"html"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// CrawlResult is the outcome of fetching one URL during a crawl.
// Exactly one of Page and Err is set.
type CrawlResult struct {
	URL  *url.URL
	Page *Page
	Err  error
}

// CrawlStream is a lazy, finite sequence of crawl results.
// A stream cannot be restarted once exhausted.
type CrawlStream interface {
	// Next fetches the next unvisited URL and returns its result.
	// Returns false once the frontier is exhausted.
	Next(ctx context.Context) (CrawlResult, bool)
}

// Crawler starts crawls of a single domain.
type Crawler interface {
	// Crawl returns a stream over every page reachable from seed within
	// seed's domain. No network I/O happens until the stream is pulled.
	Crawl(seed *url.URL) CrawlStream
}
