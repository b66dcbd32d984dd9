package mock

import (
	"context"

	"github.com/fwojciec/docpack"
)

var (
	_ docpack.ContentFetcher     = (*ContentFetcher)(nil)
	_ docpack.BatchFetcher       = (*BatchFetcher)(nil)
	_ docpack.FullContentFetcher = (*FullContentFetcher)(nil)
	_ docpack.QualityGate        = (*QualityGate)(nil)
)

// ContentFetcher is a mock implementation of docpack.ContentFetcher.
type ContentFetcher struct {
	FetchPageFn func(ctx context.Context, page docpack.DocPage) (*docpack.PageContent, error)
}

func (f *ContentFetcher) FetchPage(ctx context.Context, page docpack.DocPage) (*docpack.PageContent, error) {
	return f.FetchPageFn(ctx, page)
}

// BatchFetcher is a mock implementation of docpack.BatchFetcher.
type BatchFetcher struct {
	FetchAllFn func(ctx context.Context, pages []docpack.DocPage, progress docpack.ProgressFunc) (*docpack.BatchResult, error)
}

func (f *BatchFetcher) FetchAll(ctx context.Context, pages []docpack.DocPage, progress docpack.ProgressFunc) (*docpack.BatchResult, error) {
	return f.FetchAllFn(ctx, pages, progress)
}

// FullContentFetcher is a mock implementation of docpack.FullContentFetcher.
type FullContentFetcher struct {
	FetchFullContentFn func(ctx context.Context, site *docpack.DocSite) (*docpack.BatchResult, error)
}

func (f *FullContentFetcher) FetchFullContent(ctx context.Context, site *docpack.DocSite) (*docpack.BatchResult, error) {
	return f.FetchFullContentFn(ctx, site)
}

// QualityGate is a mock implementation of docpack.QualityGate.
type QualityGate struct {
	IsBlockedFn func(markdown, html, pageURL string) string
}

func (g *QualityGate) IsBlocked(markdown, html, pageURL string) string {
	return g.IsBlockedFn(markdown, html, pageURL)
}
