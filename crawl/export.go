package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/docpack"
)

// Exporter runs an export job: discover the site, fetch the selected pages
// and assemble them into a book.
type Exporter struct {
	Discoverer docpack.Discoverer
	Pages      docpack.BatchFetcher
	// FullContent fetches the whole site in one request when the site
	// publishes a full-content index. Optional.
	FullContent docpack.FullContentFetcher
	Assembler   docpack.Assembler
	// Renderer turns the book into its final form. Optional.
	Renderer docpack.Renderer

	// Now stamps the book. It is read once per export so the cover and
	// Book.GeneratedAt agree. Defaults to time.Now.
	Now func() time.Time
}

// ExportOptions selects the pages of an export.
type ExportOptions struct {
	Filter *docpack.URLFilter
	Limit  int
}

// Export is the outcome of an export job.
type Export struct {
	Book     *docpack.Book
	Failures []docpack.PageFailure
	// Output is the rendered book; nil without a Renderer.
	Output []byte
}

// Export runs the job for pageURL. The full-content fast path is only
// taken when no page selection is requested. Progress ends with PhaseDone
// or PhaseError.
func (e *Exporter) Export(ctx context.Context, pageURL string, opts ExportOptions, progress docpack.ProgressFunc) (*Export, error) {
	out, err := e.export(ctx, pageURL, opts, progress)
	if err != nil {
		progress.Report(docpack.FetchProgress{Phase: docpack.PhaseError, Err: err})
		return nil, err
	}
	n := len(out.Book.Contents)
	progress.Report(docpack.FetchProgress{Phase: docpack.PhaseDone, Current: n, Total: n})
	return out, nil
}

func (e *Exporter) export(ctx context.Context, pageURL string, opts ExportOptions, progress docpack.ProgressFunc) (*Export, error) {
	progress.Report(docpack.FetchProgress{Phase: docpack.PhaseDiscovering, CurrentPage: pageURL})
	site, err := e.Discoverer.Discover(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	selecting := opts.Filter != nil || opts.Limit > 0
	pages := site.Pages
	if selecting {
		pages = opts.Filter.SelectPages(site.Pages, opts.Limit)
		if len(pages) == 0 {
			return nil, docpack.Errorf(docpack.EINVALID, "no pages match the selection")
		}
	}

	progress.Report(docpack.FetchProgress{Phase: docpack.PhaseFetching, Total: len(pages)})
	var result *docpack.BatchResult
	if !selecting && site.HasFullContentIndex && e.FullContent != nil {
		if r, err := e.FullContent.FetchFullContent(ctx, site); err == nil {
			result = r
			n := len(r.Contents)
			progress.Report(docpack.FetchProgress{Phase: docpack.PhaseFetching, Current: n, Total: n})
		}
	}
	if result == nil {
		if result, err = e.Pages.FetchAll(ctx, pages, progress); err != nil {
			return nil, err
		}
	}

	progress.Report(docpack.FetchProgress{Phase: docpack.PhaseRendering, Current: len(result.Contents), Total: len(result.Contents)})
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	generatedAt := now()
	html, err := e.Assembler.Assemble(site, result.Contents, generatedAt)
	if err != nil {
		return nil, err
	}

	out := &Export{
		Book: &docpack.Book{
			Site:        site,
			Contents:    result.Contents,
			HTML:        html,
			GeneratedAt: generatedAt,
		},
		Failures: result.Failures,
	}

	if e.Renderer != nil {
		if out.Output, err = e.Renderer.Render(ctx, out.Book); err != nil {
			return nil, err
		}
	}
	return out, nil
}
