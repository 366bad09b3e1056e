// Package crawl provides the single-domain crawl engine and the registry
// that runs one background crawl per registered domain.
package crawl

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/bloom"
)

// Compile-time interface verification.
var (
	_ sitecrawl.Crawler     = (*Crawler)(nil)
	_ sitecrawl.CrawlStream = (*Stream)(nil)
)

// Visited set configuration.
const (
	// visitedExpectedURLs is the expected number of URLs for Bloom filter sizing.
	visitedExpectedURLs = 10000
	// visitedFalsePositiveRate is the filter's false positive rate. The set
	// behind the filter is exact, so this only affects lookup cost.
	visitedFalsePositiveRate = 0.01
)

// Order selects the order in which a crawl visits discovered URLs.
// It never changes the set of URLs visited.
type Order string

// Supported visitation orders.
const (
	// OrderURL visits URLs in descending order of their string form.
	OrderURL Order = "url"
	// OrderFIFO visits URLs in discovery order (breadth-first).
	OrderFIFO Order = "fifo"
)

// ParseOrder converts a string into an Order.
// An empty string selects OrderURL.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", OrderURL:
		return OrderURL, nil
	case OrderFIFO:
		return OrderFIFO, nil
	default:
		return "", sitecrawl.Errorf(sitecrawl.EINVALID, "unknown crawl order %q", s)
	}
}

// Crawler builds crawl streams over a single domain.
type Crawler struct {
	Fetcher sitecrawl.Fetcher
	Links   sitecrawl.LinkExtractor
	Order   Order

	// NewFrontier, if set, builds the frontier of each stream and Order
	// is ignored.
	NewFrontier func() sitecrawl.URLFrontier
}

// Crawl returns a stream over every page reachable from seed within seed's
// host. Each call starts from fresh state. Panics if seed is nil.
func (c *Crawler) Crawl(seed *url.URL) sitecrawl.CrawlStream {
	return c.Stream(seed)
}

// Stream is like Crawl but returns the concrete stream type.
func (c *Crawler) Stream(seed *url.URL) *Stream {
	if seed == nil {
		panic("crawl: nil seed URL")
	}

	var frontier sitecrawl.URLFrontier
	switch {
	case c.NewFrontier != nil:
		frontier = c.NewFrontier()
	case c.Order == OrderFIFO:
		frontier = NewQueue()
	default:
		frontier = NewFrontier()
	}
	frontier.Push(sitecrawl.CanonicalURL(seed))

	return &Stream{
		fetcher:  c.Fetcher,
		links:    c.Links,
		frontier: frontier,
		visited:  bloom.NewSet(visitedExpectedURLs, visitedFalsePositiveRate),
	}
}

// URLs crawls the domain of seed to exhaustion and returns every URL
// visited, including those whose fetch failed.
func (c *Crawler) URLs(ctx context.Context, seed *url.URL) []*url.URL {
	var urls []*url.URL
	for result := range c.Stream(seed).All(ctx) {
		urls = append(urls, result.URL)
	}
	return urls
}

// Count crawls the domain of seed to exhaustion and returns the number of
// URLs visited.
func (c *Crawler) Count(ctx context.Context, seed *url.URL) int {
	var n int
	for range c.Stream(seed).All(ctx) {
		n++
	}
	return n
}

// Stream is the state of one crawl: the frontier of discovered URLs and the
// set of URLs already visited. It is owned by a single goroutine.
type Stream struct {
	fetcher  sitecrawl.Fetcher
	links    sitecrawl.LinkExtractor
	frontier sitecrawl.URLFrontier
	visited  *bloom.Set
}

// Next pops URLs until it finds one that has not been visited, fetches it,
// queues its same-host links and returns the result. Fetch failures are
// reported in the result and do not end the stream.
//
// Next returns false when the frontier is exhausted, or without consuming
// any URL when ctx is already done; a later call with a live context
// resumes the crawl.
func (s *Stream) Next(ctx context.Context) (sitecrawl.CrawlResult, bool) {
	for {
		if ctx.Err() != nil {
			return sitecrawl.CrawlResult{}, false
		}

		u, ok := s.frontier.Pop()
		if !ok {
			return sitecrawl.CrawlResult{}, false
		}

		// Stale duplicate queued before its first visit.
		if !s.visited.Add(u.String()) {
			continue
		}

		result := s.fetch(ctx, u)
		if result.Page != nil {
			s.pushLinks(u, result.Page.HTML)
		}
		return result, true
	}
}

// All returns an iterator over the remaining results of the stream.
func (s *Stream) All(ctx context.Context) iter.Seq[sitecrawl.CrawlResult] {
	return func(yield func(sitecrawl.CrawlResult) bool) {
		for {
			result, ok := s.Next(ctx)
			if !ok || !yield(result) {
				return
			}
		}
	}
}

// Visited returns the number of URLs visited so far.
func (s *Stream) Visited() int {
	return s.visited.Len()
}

// Pending returns the number of URLs in the frontier, including duplicates.
func (s *Stream) Pending() int {
	return s.frontier.Len()
}

// fetch retrieves a single URL and wraps the outcome in a CrawlResult.
func (s *Stream) fetch(ctx context.Context, u *url.URL) sitecrawl.CrawlResult {
	html, err := s.fetcher.Fetch(ctx, u.String())
	if err != nil {
		return sitecrawl.CrawlResult{
			URL: u,
			Err: &sitecrawl.FetchError{URL: u.String(), Err: err},
		}
	}

	return sitecrawl.CrawlResult{
		URL: u,
		Page: &sitecrawl.Page{
			URL:         u.String(),
			HTML:        html,
			ContentHash: computeHash(html),
			FetchedAt:   time.Now().UTC(),
		},
	}
}

// pushLinks queues every unvisited link of the page that shares its host.
func (s *Stream) pushLinks(page *url.URL, html string) {
	links, err := s.links.ExtractLinks(html, page)
	if err != nil {
		return
	}

	for _, link := range links {
		if link == nil || link.Hostname() != page.Hostname() {
			continue
		}
		if s.visited.Contains(link.String()) {
			continue
		}
		s.frontier.Push(link)
	}
}

// computeHash computes a hash of the content using xxhash.
func computeHash(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}

