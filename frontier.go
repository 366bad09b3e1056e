package sitecrawl

import "net/url"

// URLFrontier holds the discovered-but-not-yet-fetched URLs of one crawl.
// It may contain duplicates; deduplication happens when URLs are popped.
// Implementations are not required to be safe for concurrent use.
type URLFrontier interface {
	// Push adds a URL to the frontier.
	Push(u *url.URL)

	// Pop removes and returns the next URL.
	// Returns false if the frontier is empty.
	Pop() (*url.URL, bool)

	// Len returns the number of URLs in the frontier.
	Len() int
}
