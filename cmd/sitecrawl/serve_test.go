package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/sitecrawl"
	main "github.com/fwojciec/sitecrawl/cmd/sitecrawl"
	"github.com/fwojciec/sitecrawl/mock"
	siteprom "github.com/fwojciec/sitecrawl/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListenAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", "127.0.0.1:8080", true},
		{"127.0.0.1:9000", "127.0.0.1:9000", true},
		{"0.0.0.0:80", "0.0.0.0:80", true},
		{":8081", ":8081", true},
		{"[::1]:8080", "[::1]:8080", true},
		{"localhost:3000", "localhost:3000", true},
		{"not an address", "127.0.0.1:8080", false},
		{"127.0.0.1", "127.0.0.1:8080", false},
		{"127.0.0.1:http", "127.0.0.1:8080", false},
		{"127.0.0.1:70000", "127.0.0.1:8080", false},
		{"example.test:80", "127.0.0.1:8080", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, ok := main.ParseListenAddr(tt.in)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestServeCmd_Run(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	metrics, err := siteprom.NewMetrics()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	deps := &main.Dependencies{
		Ctx:     ctx,
		Stdout:  &bytes.Buffer{},
		Stderr:  io.Discard,
		Logger:  slog.New(slog.DiscardHandler),
		Fetcher: siteprom.NewFetcher(siteFetcher(testSite), metrics),
		Prober: &mock.Prober{
			ProbeFn: func(_ context.Context, rawURL string) error {
				if strings.HasPrefix(rawURL, "https://down.test") {
					return errors.New("connection refused")
				}
				return nil
			},
		},
		Metrics: metrics,
		Order:   "url",
	}
	cmd := &main.ServeCmd{Listener: ln}

	done := make(chan error, 1)
	go func() { done <- cmd.Run(deps) }()

	register := func(domain string) int {
		resp, err := http.Post(base+"/crawler/domains", "application/json", strings.NewReader(`"`+domain+`"`))
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	count := func(domain string) (c sitecrawl.URLCount) {
		resp, err := http.Get(base + "/crawler/domains/" + domain + "/urls/count")
		if err != nil {
			return c
		}
		defer resp.Body.Close()
		_ = json.NewDecoder(resp.Body).Decode(&c)
		return c
	}

	assert.Equal(t, http.StatusOK, register("https://x.test/"))
	assert.Equal(t, http.StatusConflict, register("x.test"))
	assert.Equal(t, http.StatusOK, register("down.test"))
	assert.Equal(t, http.StatusBadRequest, register(""))

	assert.Eventually(t, func() bool { return count("x.test").CrawlCompleted }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 4, count("x.test").URLCount)

	assert.Eventually(t, func() bool { return count("down.test").CrawlCompleted }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, count("down.test").URLCount)

	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `sitecrawl_registrations_total{outcome="registered"} 2`)
	assert.Contains(t, string(body), `sitecrawl_registrations_total{outcome="conflict"} 1`)
	assert.Contains(t, string(body), `sitecrawl_fetches_total{outcome="error"} 1`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
