// Package slog provides log/slog decorators for docpack's services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docpack"
)

// Ensure LoggingFetcher implements docpack.Fetcher.
var _ docpack.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging. Successful fetches and
// missing resources are debug output since discovery tries many URLs that
// do not exist; other failures are logged at info level.
type LoggingFetcher struct {
	next   docpack.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next docpack.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (body string, err error) {
	defer func(begin time.Time) {
		switch {
		case docpack.ErrorCode(err) == docpack.ENOTFOUND:
			f.logger.Debug("fetch missing", "url", url, "duration", time.Since(begin))
		case err != nil:
			f.logger.Info("fetch failed",
				"url", url,
				"duration", time.Since(begin),
				"err", err,
			)
		default:
			f.logger.Debug("fetch",
				"url", url,
				"bytes", len(body),
				"duration", time.Since(begin),
			)
		}
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	err := f.next.Close()
	if err != nil {
		f.logger.Warn("closing fetcher", "err", err)
	}
	return err
}
