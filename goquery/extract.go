// Package goquery provides a goquery-based implementation of
// sitecrawl.LinkExtractor.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitecrawl"
)

// Compile-time interface verification.
var _ sitecrawl.LinkExtractor = (*LinkExtractor)(nil)

// linkSelector matches every element whose href may point at another page
// or resource on the site.
const linkSelector = "a[href], link[href]"

// LinkExtractor extracts same-host links from anchor and link elements.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks parses HTML and returns the href targets of all <a> and
// <link> elements, in document order.
//
// Relative targets are resolved against base; absolute targets pass through.
// Fragments are stripped, so "/page#intro" and "/page" are the same link.
// Targets that fail to parse, use a non-HTTP scheme, or live on a different
// host than base are dropped. Each URL appears at most once in the result.
func (e *LinkExtractor) ExtractLinks(html string, base *url.URL) ([]*url.URL, error) {
	if base == nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "base URL required")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var links []*url.URL

	doc.Find(linkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}

		// Skip non-HTTP links (javascript:, mailto:, etc.)
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == nil {
			return
		}

		// Exact host match; subdomains are different hosts.
		if resolved.Hostname() != base.Hostname() {
			return
		}

		key := resolved.String()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL resolves href against base into canonical form.
// Returns nil if href cannot be parsed or does not resolve to an HTTP URL.
func resolveURL(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil
	}
	resolved := sitecrawl.CanonicalURL(base.ResolveReference(ref))

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}
	return resolved
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
