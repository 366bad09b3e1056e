package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/goquery"
	siteprom "github.com/fwojciec/sitecrawl/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Fetcher sitecrawl.Fetcher
	Prober  sitecrawl.Prober
	Metrics *siteprom.Metrics
	Order   string
}

// Crawler builds a crawl engine from the dependencies.
func (d *Dependencies) Crawler() (*crawl.Crawler, error) {
	order, err := crawl.ParseOrder(d.Order)
	if err != nil {
		return nil, err
	}
	return &crawl.Crawler{
		Fetcher: d.Fetcher,
		Links:   goquery.NewLinkExtractor(),
		Order:   order,
	}, nil
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug   bool          `short:"d" env:"SITECRAWL_DEBUG" help:"Log every fetch at debug level"`
	Timeout time.Duration `short:"t" default:"10s" env:"SITECRAWL_TIMEOUT" help:"Fetch timeout per page"`
	Order   string        `default:"url" enum:"url,fifo" env:"SITECRAWL_ORDER" help:"Frontier order (url or fifo)"`
	Fetcher string        `default:"http" enum:"http,browser" env:"SITECRAWL_FETCHER" help:"Page fetcher (http, or browser to render JavaScript in headless Chrome)"`

	Serve ServeCmd `cmd:"" help:"Serve the crawler REST API"`
	Crawl CrawlCmd `cmd:"" help:"Crawl a single domain and print every URL found"`
}
