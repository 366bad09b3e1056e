// Package prometheus records crawl metrics with the Prometheus client and
// exposes them over HTTP.
package prometheus

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Registration outcomes.
const (
	outcomeRegistered = "registered"
	outcomeConflict   = "conflict"
	outcomeInvalid    = "invalid"
)

// Metrics holds the sitecrawl collectors in a private registry.
type Metrics struct {
	registry *prometheus.Registry

	fetchesTotal         *prometheus.CounterVec
	fetchDurationSeconds prometheus.Histogram
	registrationsTotal   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them in a new registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitecrawl_fetches_total",
				Help: "Total number of page fetches",
			},
			[]string{"outcome"},
		),
		fetchDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sitecrawl_fetch_duration_seconds",
				Help:    "Page fetch duration in seconds",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
		),
		registrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitecrawl_registrations_total",
				Help: "Total number of domain registration attempts",
			},
			[]string{"outcome"},
		),
	}

	collectors := []prometheus.Collector{
		m.fetchesTotal,
		m.fetchDurationSeconds,
		m.registrationsTotal,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

// Handler returns an http.Handler serving the registry in the text
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Ensure Fetcher implements sitecrawl.Fetcher.
var _ sitecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a Fetcher, counting fetches and timing them.
type Fetcher struct {
	next    sitecrawl.Fetcher
	metrics *Metrics
}

// NewFetcher creates a new Fetcher.
func NewFetcher(next sitecrawl.Fetcher, metrics *Metrics) *Fetcher {
	return &Fetcher{next: next, metrics: metrics}
}

// Fetch delegates to the wrapped fetcher and records the outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.metrics.fetchDurationSeconds.Observe(time.Since(begin).Seconds())
		outcome := outcomeSuccess
		if err != nil {
			outcome = outcomeError
		}
		f.metrics.fetchesTotal.WithLabelValues(outcome).Inc()
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Ensure DomainService implements sitecrawl.DomainService.
var _ sitecrawl.DomainService = (*DomainService)(nil)

// DomainService wraps a DomainService, counting registrations by outcome.
type DomainService struct {
	next    sitecrawl.DomainService
	metrics *Metrics
}

// NewDomainService creates a new DomainService.
func NewDomainService(next sitecrawl.DomainService, metrics *Metrics) *DomainService {
	return &DomainService{next: next, metrics: metrics}
}

// Register delegates to the wrapped service and records the outcome.
func (s *DomainService) Register(ctx context.Context, key sitecrawl.DomainKey) (_ sitecrawl.DomainKey, err error) {
	defer func() {
		s.metrics.registrationsTotal.WithLabelValues(registrationOutcome(err)).Inc()
	}()
	return s.next.Register(ctx, key)
}

// FindURLs delegates to the wrapped service.
func (s *DomainService) FindURLs(ctx context.Context, key sitecrawl.DomainKey) (*sitecrawl.URLList, error) {
	return s.next.FindURLs(ctx, key)
}

// CountURLs delegates to the wrapped service.
func (s *DomainService) CountURLs(ctx context.Context, key sitecrawl.DomainKey) (*sitecrawl.URLCount, error) {
	return s.next.CountURLs(ctx, key)
}

func registrationOutcome(err error) string {
	switch sitecrawl.ErrorCode(err) {
	case "":
		return outcomeRegistered
	case sitecrawl.ECONFLICT:
		return outcomeConflict
	case sitecrawl.EINVALID:
		return outcomeInvalid
	default:
		return outcomeError
	}
}
