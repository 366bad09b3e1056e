package mock

import (
	"context"
	"net/url"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.DomainService = (*DomainService)(nil)

// DomainService is a mock implementation of sitecrawl.DomainService.
type DomainService struct {
	RegisterFn  func(ctx context.Context, key sitecrawl.DomainKey) (sitecrawl.DomainKey, error)
	FindURLsFn  func(ctx context.Context, key sitecrawl.DomainKey) (*sitecrawl.URLList, error)
	CountURLsFn func(ctx context.Context, key sitecrawl.DomainKey) (*sitecrawl.URLCount, error)
}

func (s *DomainService) Register(ctx context.Context, key sitecrawl.DomainKey) (sitecrawl.DomainKey, error) {
	return s.RegisterFn(ctx, key)
}

func (s *DomainService) FindURLs(ctx context.Context, key sitecrawl.DomainKey) (*sitecrawl.URLList, error) {
	return s.FindURLsFn(ctx, key)
}

func (s *DomainService) CountURLs(ctx context.Context, key sitecrawl.DomainKey) (*sitecrawl.URLCount, error) {
	return s.CountURLsFn(ctx, key)
}

var _ sitecrawl.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of sitecrawl.Crawler.
type Crawler struct {
	CrawlFn func(seed *url.URL) sitecrawl.CrawlStream
}

func (c *Crawler) Crawl(seed *url.URL) sitecrawl.CrawlStream {
	return c.CrawlFn(seed)
}

var _ sitecrawl.CrawlStream = (*CrawlStream)(nil)

// CrawlStream is a mock implementation of sitecrawl.CrawlStream.
type CrawlStream struct {
	NextFn func(ctx context.Context) (sitecrawl.CrawlResult, bool)
}

func (s *CrawlStream) Next(ctx context.Context) (sitecrawl.CrawlResult, bool) {
	return s.NextFn(ctx)
}
