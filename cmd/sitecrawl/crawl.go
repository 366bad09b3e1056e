package main

import (
	"fmt"

	"github.com/fwojciec/sitecrawl"
)

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL   string `arg:"" help:"Seed URL or domain to crawl"`
	Count bool   `short:"c" help:"Print only the number of URLs found"`
}

// Run executes the crawl command. URLs are printed as they are found;
// failed fetches are reported on stderr and still counted.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	key, err := sitecrawl.ParseDomainKey(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}
	if scheme := key.Scheme(); scheme != "http" && scheme != "https" {
		err := sitecrawl.Errorf(sitecrawl.EINVALID, "unsupported scheme %q", scheme)
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	crawler, err := deps.Crawler()
	if err != nil {
		return err
	}

	var n, failed int
	for result := range crawler.Stream(key.URL()).All(deps.Ctx) {
		n++
		if result.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %v\n", result.Err)
		}
		if !c.Count {
			fmt.Fprintln(deps.Stdout, result.URL.String())
		}
	}

	if c.Count {
		fmt.Fprintln(deps.Stdout, n)
	}
	deps.Logger.Debug("crawl finished", "domain", key.Domain(), "urls", n, "failed", failed)

	return deps.Ctx.Err()
}
