package mock

import (
	"context"

	"github.com/fwojciec/docpack"
)

var (
	_ docpack.Extractor    = (*Extractor)(nil)
	_ docpack.Converter    = (*Converter)(nil)
	_ docpack.TokenCounter = (*TokenCounter)(nil)
)

// Extractor is a mock implementation of docpack.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*docpack.ExtractResult, error)
}

func (e *Extractor) Extract(html, pageURL string) (*docpack.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}

// Converter is a mock implementation of docpack.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// TokenCounter is a mock implementation of docpack.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}
