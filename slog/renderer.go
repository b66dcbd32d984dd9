package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docpack"
)

// Ensure LoggingRenderer implements docpack.Renderer.
var _ docpack.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   docpack.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next docpack.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the operation.
func (r *LoggingRenderer) Render(ctx context.Context, book *docpack.Book) (out []byte, err error) {
	defer func(begin time.Time) {
		pages := 0
		if book != nil {
			pages = len(book.Contents)
		}
		r.logger.Info("render",
			"pages", pages,
			"bytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, book)
}
