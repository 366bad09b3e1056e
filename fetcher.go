package sitecrawl

import "context"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch issues a GET for the URL and returns the response body.
	// Any transport failure or non-2xx status is returned as an error.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, rawURL string) (html string, err error)
}

// Prober checks whether a site is reachable before crawling it.
type Prober interface {
	// Probe returns an error if a connection to the URL cannot be made.
	// The response status is not considered.
	Probe(ctx context.Context, rawURL string) error
}
