package prometheus_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/mock"
	siteprom "github.com/fwojciec/sitecrawl/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *siteprom.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	m, err := siteprom.NewMetrics()
	require.NoError(t, err)

	inner := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			if url == "https://x.test/missing" {
				return "", errors.New("HTTP 404")
			}
			return "<html></html>", nil
		},
	}
	fetcher := siteprom.NewFetcher(inner, m)

	html, err := fetcher.Fetch(context.Background(), "https://x.test/")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)
	_, err = fetcher.Fetch(context.Background(), "https://x.test/other")
	require.NoError(t, err)
	_, err = fetcher.Fetch(context.Background(), "https://x.test/missing")
	require.Error(t, err)

	output := scrape(t, m)
	assert.Contains(t, output, `sitecrawl_fetches_total{outcome="success"} 2`)
	assert.Contains(t, output, `sitecrawl_fetches_total{outcome="error"} 1`)
	assert.Contains(t, output, `sitecrawl_fetch_duration_seconds_count 3`)
}

func TestDomainService_Register(t *testing.T) {
	t.Parallel()

	m, err := siteprom.NewMetrics()
	require.NoError(t, err)

	results := []error{
		nil,
		sitecrawl.Errorf(sitecrawl.ECONFLICT, "domain already registered"),
		sitecrawl.Errorf(sitecrawl.ECONFLICT, "domain already registered"),
		sitecrawl.Errorf(sitecrawl.EINVALID, "unsupported scheme"),
		errors.New("boom"),
	}
	var calls int
	inner := &mock.DomainService{
		RegisterFn: func(_ context.Context, key sitecrawl.DomainKey) (sitecrawl.DomainKey, error) {
			err := results[calls]
			calls++
			return key, err
		},
		CountURLsFn: func(context.Context, sitecrawl.DomainKey) (*sitecrawl.URLCount, error) {
			return &sitecrawl.URLCount{URLCount: 4}, nil
		},
	}
	svc := siteprom.NewDomainService(inner, m)

	key, err := sitecrawl.ParseDomainKey("simple.test")
	require.NoError(t, err)
	for range results {
		_, _ = svc.Register(context.Background(), key)
	}

	count, err := svc.CountURLs(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, 4, count.URLCount)

	output := scrape(t, m)
	assert.Contains(t, output, `sitecrawl_registrations_total{outcome="registered"} 1`)
	assert.Contains(t, output, `sitecrawl_registrations_total{outcome="conflict"} 2`)
	assert.Contains(t, output, `sitecrawl_registrations_total{outcome="invalid"} 1`)
	assert.Contains(t, output, `sitecrawl_registrations_total{outcome="error"} 1`)
}
