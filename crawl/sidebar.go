package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/docpack"
)

// Ensure SidebarSource implements docpack.DiscoveryStrategy.
var _ docpack.DiscoveryStrategy = (*SidebarSource)(nil)

// SidebarSource discovers pages by scraping the navigation sidebar of the
// page itself. It is the last resort of the discovery chain.
type SidebarSource struct {
	HTTPFetcher docpack.Fetcher
	// BrowserFetcher renders pages of JavaScript frameworks. Optional.
	BrowserFetcher docpack.Fetcher
	Inspector      docpack.Inspector
	Sidebar        docpack.SidebarExtractor
	// Extractor compares static and rendered copies of pages whose
	// framework is unknown. Optional.
	Extractor docpack.Extractor

	Timeout time.Duration
}

// Name returns the source name.
func (s *SidebarSource) Name() string { return docpack.SourceSidebar }

// Discover fetches pageURL, detects its framework and extracts the sidebar
// links. Pages of frameworks that require JavaScript are re-fetched through
// BrowserFetcher when one is configured.
func (s *SidebarSource) Discover(ctx context.Context, pageURL string) (*docpack.DocSite, error) {
	origin, err := docpack.Origin(pageURL)
	if err != nil {
		return nil, err
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	html, rendered, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	framework := s.Inspector.Detect(html)

	pages := s.Sidebar.ExtractPages(html, framework, pageURL)
	if len(pages) == 0 && !rendered && s.BrowserFetcher != nil {
		// Static markup without a sidebar is often an SPA shell.
		if renderedHTML, err := s.BrowserFetcher.Fetch(ctx, pageURL); err == nil {
			if fw := s.Inspector.Detect(renderedHTML); fw != docpack.FrameworkUnknown {
				framework = fw
			}
			pages = s.Sidebar.ExtractPages(renderedHTML, framework, pageURL)
		}
	}
	if len(pages) == 0 {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "no sidebar links found on %s", pageURL)
	}

	return &docpack.DocSite{
		BaseURL:   origin,
		Framework: framework,
		Pages:     pages,
		Source:    docpack.SourceSidebar,
	}, nil
}

// fetch returns the HTML to scrape and whether it came from the browser.
func (s *SidebarSource) fetch(ctx context.Context, pageURL string) (string, bool, error) {
	staticHTML, err := s.HTTPFetcher.Fetch(ctx, pageURL)
	if err != nil {
		if s.BrowserFetcher == nil {
			return "", false, err
		}
		renderedHTML, rerr := s.BrowserFetcher.Fetch(ctx, pageURL)
		if rerr != nil {
			return "", false, err
		}
		return renderedHTML, true, nil
	}
	if s.BrowserFetcher == nil {
		return staticHTML, false, nil
	}

	framework := s.Inspector.Detect(staticHTML)
	requiresJS, known := s.Inspector.RequiresJS(framework)
	if known && !requiresJS {
		return staticHTML, false, nil
	}
	if !known && s.Extractor == nil {
		return staticHTML, false, nil
	}

	renderedHTML, err := s.BrowserFetcher.Fetch(ctx, pageURL)
	if err != nil {
		return staticHTML, false, nil
	}
	if known || ContentDiffers(staticHTML, renderedHTML, pageURL, s.Extractor) {
		return renderedHTML, true, nil
	}
	return staticHTML, false, nil
}
