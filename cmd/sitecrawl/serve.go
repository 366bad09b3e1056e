package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	sitehttp "github.com/fwojciec/sitecrawl/http"
	siteprom "github.com/fwojciec/sitecrawl/prometheus"
	siteslog "github.com/fwojciec/sitecrawl/slog"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long serve waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string `arg:"" optional:"" help:"Listen address (default: 127.0.0.1:8080)"`
	NoProbe bool   `name:"no-probe" help:"Crawl without first checking the seed is reachable"`

	// Listener replaces the listener opened on Addr. Used by tests.
	Listener net.Listener `kong:"-"`
}

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	crawler, err := deps.Crawler()
	if err != nil {
		return err
	}

	var opts []crawl.DomainServiceOption
	opts = append(opts, crawl.WithLogger(deps.Logger))
	if !c.NoProbe {
		opts = append(opts, crawl.WithProber(deps.Prober))
	}

	var domains sitecrawl.DomainService = crawl.NewDomainService(crawler, opts...)
	domains = siteslog.NewLoggingDomainService(domains, deps.Logger)
	domains = siteprom.NewDomainService(domains, deps.Metrics)

	ln := c.Listener
	if ln == nil {
		addr, ok := ParseListenAddr(c.Addr)
		if !ok {
			deps.Logger.Warn("invalid listen address, using default", "addr", c.Addr, "default", addr)
		}
		ln, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
	}

	server := &http.Server{
		Handler: sitehttp.NewServer(domains,
			sitehttp.WithLogger(deps.Logger),
			sitehttp.WithMetricsHandler(deps.Metrics.Handler()),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		deps.Logger.Info("listening", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		deps.Logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// ParseListenAddr validates a host:port listen address. An empty or
// invalid address yields sitehttp.DefaultAddr; ok is false only for an
// invalid non-empty address.
func ParseListenAddr(addr string) (_ string, ok bool) {
	if addr == "" {
		return sitehttp.DefaultAddr, true
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return sitehttp.DefaultAddr, false
	}
	if host != "" && net.ParseIP(host) == nil && host != "localhost" {
		return sitehttp.DefaultAddr, false
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return sitehttp.DefaultAddr, false
	}
	return addr, true
}
