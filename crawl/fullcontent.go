package crawl

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/docpack"
)

// Ensure FullContentFetcher implements docpack.FullContentFetcher.
var _ docpack.FullContentFetcher = (*FullContentFetcher)(nil)

// FullContentFetcher fetches a site's llms-full.txt once and splits it into
// pages instead of fetching every page.
type FullContentFetcher struct {
	Fetcher      docpack.Fetcher
	Timeout      time.Duration
	MinPageChars int
}

// NewFullContentFetcher creates a FullContentFetcher with default timeout
// and minimum page length.
func NewFullContentFetcher(fetcher docpack.Fetcher) *FullContentFetcher {
	return &FullContentFetcher{
		Fetcher:      fetcher,
		Timeout:      docpack.DefaultTimeouts().FullContent,
		MinPageChars: docpack.DefaultThresholds().MinPageChars,
	}
}

// FetchFullContent splits the full-content file of site at its H1
// headings, or at H2 headings when the file has fewer than two H1 pages.
// A chunk's URL comes from its Source:/URL: line or from the page list
// entry with the same title; its section comes from the matching page.
// It returns ENOTFOUND when the site has no full-content file or the file
// yields no page.
func (f *FullContentFetcher) FetchFullContent(ctx context.Context, site *docpack.DocSite) (*docpack.BatchResult, error) {
	if site == nil || !site.HasFullContentIndex || site.FullContentURL == "" {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "site has no full content index")
	}

	ctx, cancel := withTimeout(ctx, f.Timeout)
	defer cancel()

	body, err := f.Fetcher.Fetch(ctx, site.FullContentURL)
	if err != nil {
		return nil, err
	}
	if docpack.LooksLikeHTML(body) {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "%s is an HTML page", site.FullContentURL)
	}

	chunks := titledChunks(docpack.SplitByHeadings(body, 1))
	if len(chunks) < 2 {
		if h2 := titledChunks(docpack.SplitByHeadings(body, 2)); len(h2) > len(chunks) {
			chunks = h2
		}
	}

	byURL := make(map[string]docpack.DocPage, len(site.Pages))
	byTitle := make(map[string]docpack.DocPage, len(site.Pages))
	for _, p := range site.Pages {
		byURL[docpack.NormalizeURL(p.URL)] = p
		if key := strings.ToLower(p.Title); key != "" {
			if _, ok := byTitle[key]; !ok {
				byTitle[key] = p
			}
		}
	}

	result := &docpack.BatchResult{}
	for _, c := range chunks {
		page, matched := docpack.DocPage{}, false
		if c.URL != "" {
			page, matched = byURL[docpack.NormalizeURL(c.URL)]
		}
		if !matched {
			page, matched = byTitle[strings.ToLower(c.Title)]
		}

		pageURL := c.URL
		if pageURL == "" && matched {
			pageURL = page.URL
		}
		if pageURL == "" {
			pageURL = site.FullContentURL
		}

		markdown := docpack.CleanMarkdown(c.Markdown)
		if n := len(strings.TrimSpace(markdown)); n < f.MinPageChars {
			result.Failures = append(result.Failures, docpack.PageFailure{
				URL:    pageURL,
				Reason: "content too short",
			})
			continue
		}
		result.Contents = append(result.Contents, docpack.NewPageContent(pageURL, c.Title, markdown, page.Section))
	}

	if len(result.Contents) == 0 {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "full content index %s yielded no pages", site.FullContentURL)
	}
	return result, nil
}

// titledChunks drops the untitled preamble.
func titledChunks(chunks []docpack.ContentChunk) []docpack.ContentChunk {
	out := chunks[:0:0]
	for _, c := range chunks {
		if c.Title != "" {
			out = append(out, c)
		}
	}
	return out
}
