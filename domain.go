package sitecrawl

import (
	"context"
	"net/url"
	"strings"
)

// DomainKey identifies a crawl by the host of its seed URL.
// Two keys are equal iff their Domain values are equal; the scheme and the
// rest of the seed URL are retained but do not take part in identity.
type DomainKey struct {
	url *url.URL
}

// ParseDomainKey builds a DomainKey from user input such as "example.com",
// "https://example.com/docs" or "localhost:8080".
//
// Input that lacks a scheme or a host is retried with an "https://" prefix,
// so "//example.com" and "localhost:8080" both become https URLs. Returns
// EINVALID if no host can be extracted or the URL carries userinfo.
func ParseDomainKey(raw string) (DomainKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DomainKey{}, Errorf(EINVALID, "domain required")
	}

	u, err := url.Parse(raw)
	if (err != nil || u.Scheme == "" || u.Host == "") && !strings.Contains(raw, "://") {
		prefix := "https://"
		if strings.HasPrefix(raw, "//") {
			prefix = "https:"
		}
		u, err = url.Parse(prefix + raw)
	}
	if err != nil {
		return DomainKey{}, Errorf(EINVALID, "invalid domain %q: %v", raw, err)
	}
	if u.Hostname() == "" {
		return DomainKey{}, Errorf(EINVALID, "invalid domain %q: no host", raw)
	}
	if u.User != nil {
		return DomainKey{}, Errorf(EINVALID, "invalid domain %q: userinfo not allowed", raw)
	}

	return DomainKey{url: u}, nil
}

// Domain returns the host string used as the key's identity.
func (k DomainKey) Domain() string {
	if k.url == nil {
		return ""
	}
	return k.url.Hostname()
}

// Scheme returns the scheme of the seed URL.
func (k DomainKey) Scheme() string {
	if k.url == nil {
		return ""
	}
	return k.url.Scheme
}

// URL returns a copy of the seed URL the key was parsed from.
func (k DomainKey) URL() *url.URL {
	if k.url == nil {
		return nil
	}
	u := *k.url
	return &u
}

// IsZero reports whether the key was never parsed.
func (k DomainKey) IsZero() bool {
	return k.url == nil
}

// String returns the domain.
func (k DomainKey) String() string {
	return k.Domain()
}

// URLList is a snapshot of the URLs discovered for a domain.
type URLList struct {
	CrawlCompleted bool     `json:"crawl_completed"`
	URLs           []string `json:"urls"`
}

// URLCount is a snapshot of how many URLs were discovered for a domain.
type URLCount struct {
	CrawlCompleted bool `json:"crawl_completed"`
	URLCount       int  `json:"url_count"`
}

// DomainService registers domains for crawling and reports their progress.
type DomainService interface {
	// Register starts a background crawl of the key's seed URL and returns
	// immediately. Returns EINVALID for schemes other than http and https,
	// and ECONFLICT if the domain is already registered.
	Register(ctx context.Context, key DomainKey) (DomainKey, error)

	// FindURLs returns every URL crawled for the domain so far.
	// Returns ENOTFOUND if the domain was never registered.
	FindURLs(ctx context.Context, key DomainKey) (*URLList, error)

	// CountURLs returns the number of URLs crawled for the domain so far.
	// Returns ENOTFOUND if the domain was never registered.
	CountURLs(ctx context.Context, key DomainKey) (*URLCount, error)
}
