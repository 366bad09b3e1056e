package sitecrawl

import "net/url"

// LinkExtractor extracts crawlable links from HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns the link targets found in it,
	// resolved against base, passed through CanonicalURL and restricted to
	// base's host. Links that cannot be resolved are silently dropped.
	ExtractLinks(html string, base *url.URL) ([]*url.URL, error)
}

// CanonicalURL returns a copy of u in the form used to identify pages
// during a crawl: without a fragment, and with an empty path replaced by
// "/". "https://x.test", "https://x.test/" and "https://x.test/#top" are
// all the same page.
func CanonicalURL(u *url.URL) *url.URL {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	if c.Path == "" && c.Opaque == "" {
		c.Path = "/"
		c.RawPath = ""
	}
	return &c
}
