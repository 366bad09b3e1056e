package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitecrawl"
)

// Ensure LoggingDomainService implements sitecrawl.DomainService.
var _ sitecrawl.DomainService = (*LoggingDomainService)(nil)

// LoggingDomainService wraps a DomainService with request logging.
type LoggingDomainService struct {
	next   sitecrawl.DomainService
	logger *slog.Logger
}

// NewLoggingDomainService creates a new LoggingDomainService.
func NewLoggingDomainService(next sitecrawl.DomainService, logger *slog.Logger) *LoggingDomainService {
	return &LoggingDomainService{next: next, logger: logger}
}

// Register delegates to the wrapped service and logs the registration.
func (s *LoggingDomainService) Register(ctx context.Context, key sitecrawl.DomainKey) (_ sitecrawl.DomainKey, err error) {
	defer func(begin time.Time) {
		s.logger.Info("register domain",
			"domain", key.Domain(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Register(ctx, key)
}

// FindURLs delegates to the wrapped service and logs the lookup.
func (s *LoggingDomainService) FindURLs(ctx context.Context, key sitecrawl.DomainKey) (list *sitecrawl.URLList, err error) {
	defer func(begin time.Time) {
		attrs := []any{"domain", key.Domain()}
		if list != nil {
			attrs = append(attrs, "count", len(list.URLs), "completed", list.CrawlCompleted)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		s.logger.Debug("find urls", attrs...)
	}(time.Now())
	return s.next.FindURLs(ctx, key)
}

// CountURLs delegates to the wrapped service and logs the lookup.
func (s *LoggingDomainService) CountURLs(ctx context.Context, key sitecrawl.DomainKey) (count *sitecrawl.URLCount, err error) {
	defer func(begin time.Time) {
		attrs := []any{"domain", key.Domain()}
		if count != nil {
			attrs = append(attrs, "count", count.URLCount, "completed", count.CrawlCompleted)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		s.logger.Debug("count urls", attrs...)
	}(time.Now())
	return s.next.CountURLs(ctx, key)
}
