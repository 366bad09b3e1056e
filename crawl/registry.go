package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/google/uuid"
)

// Ensure DomainService implements sitecrawl.DomainService at compile time.
var _ sitecrawl.DomainService = (*DomainService)(nil)

// DomainService keeps one record per registered domain and runs one
// background crawl per record. Records are never removed.
type DomainService struct {
	crawler sitecrawl.Crawler
	prober  sitecrawl.Prober
	logger  *slog.Logger

	mu      sync.RWMutex
	domains map[string]*domainRecord
}

// DomainServiceOption configures a DomainService.
type DomainServiceOption func(*DomainService)

// WithProber makes each crawl probe its seed first. A failed probe
// completes the crawl with no URLs.
func WithProber(p sitecrawl.Prober) DomainServiceOption {
	return func(s *DomainService) {
		s.prober = p
	}
}

// WithLogger sets the logger used for crawl lifecycle events.
// Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) DomainServiceOption {
	return func(s *DomainService) {
		s.logger = logger
	}
}

// NewDomainService creates a DomainService that crawls with crawler.
func NewDomainService(crawler sitecrawl.Crawler, opts ...DomainServiceOption) *DomainService {
	s := &DomainService{
		crawler: crawler,
		logger:  slog.New(slog.DiscardHandler),
		domains: make(map[string]*domainRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register records the domain and starts crawling it in the background.
// It returns without waiting for the crawl. The crawl outlives ctx.
func (s *DomainService) Register(ctx context.Context, key sitecrawl.DomainKey) (sitecrawl.DomainKey, error) {
	if key.IsZero() {
		return sitecrawl.DomainKey{}, sitecrawl.Errorf(sitecrawl.EINVALID, "domain required")
	}
	switch key.Scheme() {
	case "http", "https":
	default:
		return sitecrawl.DomainKey{}, sitecrawl.Errorf(sitecrawl.EINVALID, "unsupported scheme %q", key.Scheme())
	}

	record, err := s.insert(key.Domain())
	if err != nil {
		return sitecrawl.DomainKey{}, err
	}

	go s.run(context.WithoutCancel(ctx), key, record)

	return key, nil
}

// insert adds an empty record for domain. The presence check and the
// insert happen under a single write lock.
func (s *DomainService) insert(domain string) (*domainRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.domains[domain]; ok {
		return nil, sitecrawl.Errorf(sitecrawl.ECONFLICT, "domain already registered: %s", domain)
	}
	record := &domainRecord{}
	s.domains[domain] = record
	return record, nil
}

// FindURLs returns a snapshot of the URLs found so far for the domain.
func (s *DomainService) FindURLs(_ context.Context, key sitecrawl.DomainKey) (*sitecrawl.URLList, error) {
	record, err := s.lookup(key)
	if err != nil {
		return nil, err
	}
	completed, urls := record.snapshot()
	return &sitecrawl.URLList{CrawlCompleted: completed, URLs: urls}, nil
}

// CountURLs returns the number of URLs found so far for the domain.
func (s *DomainService) CountURLs(_ context.Context, key sitecrawl.DomainKey) (*sitecrawl.URLCount, error) {
	record, err := s.lookup(key)
	if err != nil {
		return nil, err
	}
	completed, n := record.count()
	return &sitecrawl.URLCount{CrawlCompleted: completed, URLCount: n}, nil
}

// lookup returns the record for key. The map lock is released before the
// caller touches the record.
func (s *DomainService) lookup(key sitecrawl.DomainKey) (*domainRecord, error) {
	s.mu.RLock()
	record, ok := s.domains[key.Domain()]
	s.mu.RUnlock()

	if !ok {
		return nil, sitecrawl.Errorf(sitecrawl.ENOTFOUND, "domain not registered: %s", key.Domain())
	}
	return record, nil
}

// run crawls the domain of key to exhaustion, appending every result's URL
// to record. The record is marked complete on every exit path.
func (s *DomainService) run(ctx context.Context, key sitecrawl.DomainKey, record *domainRecord) {
	begin := time.Now()
	logger := s.logger.With("crawl_id", uuid.NewString(), "domain", key.Domain())

	defer func() {
		if r := recover(); r != nil {
			logger.Error("crawl panicked", "panic", fmt.Sprint(r))
		}
	}()
	defer record.complete()

	seed := key.URL()
	logger.Info("crawl started", "seed", seed.String())

	if s.prober != nil {
		if err := s.prober.Probe(ctx, seed.String()); err != nil {
			logger.Warn("crawl probe failed", "seed", seed.String(), "err", err)
			return
		}
	}

	var failed int
	stream := s.crawler.Crawl(seed)
	for {
		result, ok := stream.Next(ctx)
		if !ok {
			break
		}
		if result.Err != nil {
			failed++
			logger.Debug("fetch failed", "url", result.URL.String(), "err", result.Err)
		}
		record.append(result.URL.String())
	}

	_, n := record.count()
	logger.Info("crawl finished",
		"urls", n,
		"failed", failed,
		"duration", time.Since(begin),
	)
}

// domainRecord is the accumulating result of one domain's crawl.
type domainRecord struct {
	mu        sync.RWMutex
	completed bool
	urls      []string
}

func (r *domainRecord) append(u string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, u)
}

func (r *domainRecord) complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = true
}

func (r *domainRecord) snapshot() (bool, []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	urls := make([]string, len(r.urls))
	copy(urls, r.urls)
	return r.completed, urls
}

func (r *domainRecord) count() (bool, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.completed, len(r.urls)
}
