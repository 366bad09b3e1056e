package mock

import (
	"net/url"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitecrawl.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, base *url.URL) ([]*url.URL, error)
}

func (e *LinkExtractor) ExtractLinks(html string, base *url.URL) ([]*url.URL, error) {
	return e.ExtractLinksFn(html, base)
}
