package crawl

import (
	"context"
	"strings"

	"github.com/fwojciec/docpack"
	"golang.org/x/sync/errgroup"
)

// Ensure BatchFetcher implements docpack.BatchFetcher.
var _ docpack.BatchFetcher = (*BatchFetcher)(nil)

// BatchFetcher fetches pages in fixed-size concurrent batches. A batch
// completes before the next one starts, so at most Concurrency requests
// are in flight against the site at any time.
type BatchFetcher struct {
	Fetcher      docpack.ContentFetcher
	Concurrency  int
	MinPageChars int
}

// NewBatchFetcher creates a BatchFetcher with default concurrency and
// minimum page length.
func NewBatchFetcher(fetcher docpack.ContentFetcher) *BatchFetcher {
	return &BatchFetcher{
		Fetcher:      fetcher,
		Concurrency:  docpack.DefaultConcurrency,
		MinPageChars: docpack.DefaultThresholds().MinPageChars,
	}
}

// pageResult holds the outcome of one page fetch.
type pageResult struct {
	content *docpack.PageContent
	err     error
}

// FetchAll fetches pages and returns the successful ones in input order.
// Failed, blocked and too-short pages are reported in Failures without
// stopping the batch. Progress is reported after every batch.
func (b *BatchFetcher) FetchAll(ctx context.Context, pages []docpack.DocPage, progress docpack.ProgressFunc) (*docpack.BatchResult, error) {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = docpack.DefaultConcurrency
	}

	results := make([]pageResult, len(pages))
	total := len(pages)

	for start := 0; start < total; start += concurrency {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+concurrency, total)

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = b.fetchOne(ctx, pages[i])
				return nil
			})
		}
		_ = g.Wait()

		progress.Report(docpack.FetchProgress{
			Phase:       docpack.PhaseFetching,
			Current:     end,
			Total:       total,
			CurrentPage: lastTitle(results[start:end], pages[start:end]),
		})
	}

	result := &docpack.BatchResult{}
	for i, r := range results {
		if r.err != nil {
			result.Failures = append(result.Failures, docpack.PageFailure{
				URL:    pages[i].URL,
				Reason: docpack.ErrorMessage(r.err),
			})
			continue
		}
		result.Contents = append(result.Contents, r.content)
	}

	if len(result.Contents) == 0 {
		return result, docpack.Errorf(docpack.ENOTFOUND, "no pages fetched")
	}
	return result, nil
}

// fetchOne fetches a single page. A panic in the fetcher is turned into a
// page failure.
func (b *BatchFetcher) fetchOne(ctx context.Context, page docpack.DocPage) (r pageResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r = pageResult{err: docpack.Errorf(docpack.EINTERNAL, "panic fetching %s: %v", page.URL, rec)}
		}
	}()

	content, err := b.Fetcher.FetchPage(ctx, page)
	if err != nil {
		return pageResult{err: err}
	}
	if content == nil {
		return pageResult{err: docpack.Errorf(docpack.ENOTFOUND, "no content for %s", page.URL)}
	}
	if n := len(strings.TrimSpace(content.Markdown)); n < b.MinPageChars {
		return pageResult{err: docpack.Errorf(docpack.EINVALID, "content too short (%d chars)", n)}
	}
	return pageResult{content: content}
}

// lastTitle returns the title of the last page of a batch for display.
func lastTitle(results []pageResult, pages []docpack.DocPage) string {
	for i := len(results) - 1; i >= 0; i-- {
		if c := results[i].content; c != nil && c.Title != "" {
			return c.Title
		}
	}
	if len(pages) == 0 {
		return ""
	}
	return pages[len(pages)-1].Title
}
