package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docpack"
)

// Ensure LoggingStrategy implements docpack.DiscoveryStrategy.
var _ docpack.DiscoveryStrategy = (*LoggingStrategy)(nil)

// LoggingStrategy wraps a DiscoveryStrategy with logging. A failed step is
// logged at debug level since the chain moves on to the next strategy.
type LoggingStrategy struct {
	next   docpack.DiscoveryStrategy
	logger *slog.Logger
}

// NewLoggingStrategy creates a new LoggingStrategy.
func NewLoggingStrategy(next docpack.DiscoveryStrategy, logger *slog.Logger) *LoggingStrategy {
	return &LoggingStrategy{next: next, logger: logger}
}

// Name returns the wrapped strategy's name.
func (s *LoggingStrategy) Name() string { return s.next.Name() }

// Discover delegates to the wrapped strategy and logs the outcome.
func (s *LoggingStrategy) Discover(ctx context.Context, pageURL string) (site *docpack.DocSite, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Debug("discovery step skipped",
				"source", s.next.Name(),
				"url", pageURL,
				"reason", docpack.ErrorMessage(err),
				"duration", time.Since(begin),
			)
			return
		}
		pages := 0
		if site != nil {
			pages = len(site.Pages)
		}
		s.logger.Info("discovery",
			"source", s.next.Name(),
			"url", pageURL,
			"pages", pages,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.Discover(ctx, pageURL)
}
