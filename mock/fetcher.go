package mock

import (
	"context"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitecrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, rawURL string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	return f.FetchFn(ctx, rawURL)
}

var _ sitecrawl.Prober = (*Prober)(nil)

// Prober is a mock implementation of sitecrawl.Prober.
type Prober struct {
	ProbeFn func(ctx context.Context, rawURL string) error
}

func (p *Prober) Probe(ctx context.Context, rawURL string) error {
	return p.ProbeFn(ctx, rawURL)
}
