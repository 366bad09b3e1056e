package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitecrawl"
	sitehttp "github.com/fwojciec/sitecrawl/http"
	"github.com/fwojciec/sitecrawl/rod"
	siteprom "github.com/fwojciec/sitecrawl/prometheus"
	siteslog "github.com/fwojciec/sitecrawl/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Network services. Set before calling Run() to replace the HTTP
	// implementations, e.g. in end-to-end tests.
	Fetcher sitecrawl.Fetcher
	Prober  sitecrawl.Prober
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitecrawl"),
		kong.Description("Crawl every page of a single web domain"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitecrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Wire dependencies
	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps.Metrics, err = siteprom.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	httpFetcher := sitehttp.NewFetcher(sitehttp.WithTimeout(cli.Timeout))
	deps.Fetcher = m.Fetcher
	if deps.Fetcher == nil {
		switch cli.Fetcher {
		case "browser":
			browserFetcher := rod.NewFetcher(rod.WithTimeout(cli.Timeout))
			defer browserFetcher.Close()
			deps.Fetcher = browserFetcher
		default:
			deps.Fetcher = httpFetcher
		}
	}
	deps.Prober = m.Prober
	if deps.Prober == nil {
		deps.Prober = httpFetcher
	}

	if cli.Debug {
		deps.Fetcher = siteslog.NewLoggingFetcher(deps.Fetcher, deps.Logger)
		deps.Prober = siteslog.NewLoggingProber(deps.Prober, deps.Logger)
	}
	deps.Fetcher = siteprom.NewFetcher(deps.Fetcher, deps.Metrics)

	deps.Order = cli.Order

	return kongCtx.Run(deps)
}
