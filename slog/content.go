package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docpack"
)

// Ensure LoggingContentFetcher implements docpack.ContentFetcher.
var _ docpack.ContentFetcher = (*LoggingContentFetcher)(nil)

// LoggingContentFetcher wraps a ContentFetcher with logging. Rejections by
// the quality gate are logged as warnings.
type LoggingContentFetcher struct {
	next   docpack.ContentFetcher
	logger *slog.Logger
}

// NewLoggingContentFetcher creates a new LoggingContentFetcher.
func NewLoggingContentFetcher(next docpack.ContentFetcher, logger *slog.Logger) *LoggingContentFetcher {
	return &LoggingContentFetcher{next: next, logger: logger}
}

// FetchPage delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingContentFetcher) FetchPage(ctx context.Context, page docpack.DocPage) (content *docpack.PageContent, err error) {
	defer func(begin time.Time) {
		switch {
		case docpack.ErrorCode(err) == docpack.EBLOCKED:
			f.logger.Warn("page blocked",
				"url", page.URL,
				"reason", docpack.ErrorMessage(err),
			)
		case err != nil:
			f.logger.Info("page failed",
				"url", page.URL,
				"duration", time.Since(begin),
				"err", err,
			)
		case content != nil:
			f.logger.Debug("page",
				"url", page.URL,
				"title", content.Title,
				"words", content.WordCount,
				"duration", time.Since(begin),
			)
		}
	}(time.Now())
	return f.next.FetchPage(ctx, page)
}
