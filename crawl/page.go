package crawl

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/fwojciec/docpack"
)

// Ensure PageFetcher implements docpack.ContentFetcher.
var _ docpack.ContentFetcher = (*PageFetcher)(nil)

// PageFetcher retrieves one page as cleaned Markdown. It first asks the
// site for a Markdown copy of the page and falls back to extracting the
// main content of the HTML page.
type PageFetcher struct {
	Fetcher   docpack.Fetcher
	Extractor docpack.Extractor
	Converter docpack.Converter
	// Gate rejects block pages. Optional.
	Gate docpack.QualityGate
	// Limiter spaces out requests to the same host. Optional.
	Limiter docpack.DomainLimiter
	// HTMLOnly skips the Markdown copy and always extracts the HTML page.
	HTMLOnly bool

	Thresholds  docpack.Thresholds
	Timeouts    docpack.Timeouts
	RetryDelays []time.Duration
	Logger      LogFunc
}

// NewPageFetcher creates a PageFetcher with default thresholds, timeouts
// and retry delays.
func NewPageFetcher(fetcher docpack.Fetcher, extractor docpack.Extractor, converter docpack.Converter, gate docpack.QualityGate) *PageFetcher {
	return &PageFetcher{
		Fetcher:     fetcher,
		Extractor:   extractor,
		Converter:   converter,
		Gate:        gate,
		Thresholds:  docpack.DefaultThresholds(),
		Timeouts:    docpack.DefaultTimeouts(),
		RetryDelays: DefaultRetryDelays(),
	}
}

// FetchPage returns the cleaned Markdown of page. The title is the first
// heading of the content, else the extracted HTML title, else the page's
// navigation title. Block pages are rejected with EBLOCKED and evicted
// from a caching fetcher, so a retry goes back to the site.
func (f *PageFetcher) FetchPage(ctx context.Context, page docpack.DocPage) (*docpack.PageContent, error) {
	u, err := url.Parse(page.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, docpack.Errorf(docpack.EINVALID, "invalid page URL %q", page.URL)
	}

	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	var markdown, html, extractedTitle string
	source := page.URL
	md, ok := "", false
	if !f.HTMLOnly {
		md, ok = f.fetchMarkdown(ctx, page.URL)
	}
	if ok {
		markdown = md
		source = MarkdownURL(page.URL)
	} else {
		html, err = f.fetchHTML(ctx, page.URL)
		if err != nil {
			return nil, err
		}
		extracted, err := f.Extractor.Extract(html, page.URL)
		if err != nil {
			return nil, err
		}
		markdown, err = f.Converter.Convert(extracted.ContentHTML)
		if err != nil {
			return nil, err
		}
		extractedTitle = extracted.Title
	}

	markdown = docpack.CleanMarkdown(markdown)
	if f.Gate != nil {
		if reason := f.Gate.IsBlocked(markdown, html, page.URL); reason != "" {
			if inv, ok := f.Fetcher.(Invalidator); ok {
				_ = inv.Invalidate(ctx, source)
			}
			return nil, docpack.Errorf(docpack.EBLOCKED, "%s: %s", page.URL, reason)
		}
	}

	title := docpack.FirstHeading(markdown)
	if title == "" {
		title = strings.TrimSpace(extractedTitle)
	}
	if title == "" {
		title = page.Title
	}

	return docpack.NewPageContent(page.URL, title, markdown, page.Section), nil
}

// fetchMarkdown tries the Markdown copy of pageURL. It reports false when
// the copy is missing, too short or is actually an HTML page.
func (f *PageFetcher) fetchMarkdown(ctx context.Context, pageURL string) (string, bool) {
	mdURL := MarkdownURL(pageURL)
	if mdURL == "" {
		return "", false
	}
	ctx, cancel := withTimeout(ctx, f.Timeouts.Markdown)
	defer cancel()

	body, err := f.Fetcher.Fetch(ctx, mdURL)
	if err != nil {
		return "", false
	}
	if len(strings.TrimSpace(body)) < f.Thresholds.MinMarkdownChars || docpack.LooksLikeHTML(body) {
		return "", false
	}
	return body, true
}

func (f *PageFetcher) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	delays := f.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fetch := func(ctx context.Context, target string) (string, error) {
		ctx, cancel := withTimeout(ctx, f.Timeouts.HTML)
		defer cancel()
		return f.Fetcher.Fetch(ctx, target)
	}
	return FetchWithRetryDelays(ctx, pageURL, fetch, f.Logger, delays)
}

// MarkdownURL returns the URL of the Markdown copy of a page: the path
// without its trailing slash plus ".md", with query and fragment dropped.
// URLs already pointing at .md, .mdx or .txt files are returned unchanged.
// The site root maps to /index.md.
func MarkdownURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawPath = ""

	switch strings.ToLower(path.Ext(u.Path)) {
	case ".md", ".mdx", ".txt":
		return u.String()
	}

	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		p = "/index"
	}
	u.Path = p + ".md"
	return u.String()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
