package http

import (
	"bufio"
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/docpack"
	"golang.org/x/sync/errgroup"
)

// Ensure SitemapSource implements docpack.DiscoveryStrategy.
var _ docpack.DiscoveryStrategy = (*SitemapSource)(nil)

// childSitemapConcurrency bounds parallel fetches of sitemap index children.
const childSitemapConcurrency = 4

// SitemapSource discovers pages from a site's sitemap.
type SitemapSource struct {
	fetcher docpack.Fetcher

	Thresholds docpack.Thresholds
	Timeout    time.Duration
}

// NewSitemapSource creates a SitemapSource that fetches through fetcher.
func NewSitemapSource(fetcher docpack.Fetcher) *SitemapSource {
	return &SitemapSource{
		fetcher:    fetcher,
		Thresholds: docpack.DefaultThresholds(),
		Timeout:    docpack.DefaultTimeouts().Sitemap,
	}
}

// Name returns the source name.
func (s *SitemapSource) Name() string { return docpack.SourceSitemap }

// Discover tries the sitemap candidates of pageURL's site in order and
// returns the pages of the first one that yields any URL, after dropping
// cross-origin entries and applying the path-prefix and language filters.
func (s *SitemapSource) Discover(ctx context.Context, pageURL string) (*docpack.DocSite, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, docpack.Errorf(docpack.EINVALID, "invalid page URL %q", pageURL)
	}

	urls, err := s.DiscoverURLs(ctx, base)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "no sitemap found for %s", base.Host)
	}

	urls = docpack.FilterPathPrefix(urls, pageURL, s.Thresholds)
	urls = docpack.FilterLanguage(urls)

	pages := docpack.DedupePages(sitemapPages(urls, docpack.SourceDir(pageURL)))
	if len(pages) < s.Thresholds.MinSitemapPages {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "sitemap lists %d pages, need %d", len(pages), s.Thresholds.MinSitemapPages)
	}

	return &docpack.DocSite{
		BaseURL: base.Scheme + "://" + base.Host,
		Title:   base.Host,
		Pages:   pages,
		Source:  docpack.SourceSitemap,
	}, nil
}

// DiscoverURLs returns the same-origin URLs of the first sitemap candidate
// that yields any. Candidates are the path-scoped sitemap, the conventional
// root sitemaps and finally the Sitemap: directives of robots.txt.
func (s *SitemapSource) DiscoverURLs(ctx context.Context, base *url.URL) ([]string, error) {
	for _, candidate := range sitemapCandidates(base) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if urls := sameOrigin(base, s.collect(ctx, candidate)); len(urls) > 0 {
			return urls, nil
		}
	}

	robots, err := s.robotsSitemaps(ctx, base)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	for _, candidate := range robots {
		if urls := sameOrigin(base, s.collect(ctx, candidate)); len(urls) > 0 {
			return urls, nil
		}
	}
	return nil, nil
}

// sitemapCandidates lists the conventional sitemap locations for base,
// most specific first.
func sitemapCandidates(base *url.URL) []string {
	origin := base.Scheme + "://" + base.Host
	var candidates []string
	if seg := firstSegment(base.Path); seg != "" {
		candidates = append(candidates, origin+"/"+seg+"/sitemap.xml")
	}
	return append(candidates,
		origin+"/sitemap.xml",
		origin+"/sitemap-0.xml",
		origin+"/sitemap_index.xml",
	)
}

// firstSegment returns the first directory segment of p, ignoring a
// trailing file name: "/docs/intro" gives "docs", "/intro" gives "".
func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	i := strings.IndexByte(p, '/')
	if i <= 0 {
		return ""
	}
	return p[:i]
}

// collect fetches one sitemap and returns its page URLs. A sitemap index
// is expanded one level; its children are fetched concurrently and their
// URLs joined in index order. Failures yield no URLs.
func (s *SitemapSource) collect(ctx context.Context, sitemapURL string) []string {
	body, err := s.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil
	}

	urls, children, err := ParseSitemap(body)
	if err != nil {
		return nil
	}
	if len(children) == 0 {
		return urls
	}

	results := make([][]string, len(children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(childSitemapConcurrency)
	for i, child := range children {
		g.Go(func() error {
			body, err := s.fetcher.Fetch(gctx, child)
			if err != nil {
				return nil
			}
			// Nested indexes are not followed.
			childURLs, _, err := ParseSitemap(body)
			if err != nil {
				return nil
			}
			results[i] = childURLs
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		urls = append(urls, r...)
	}
	return urls
}

// robotsSitemaps extracts Sitemap: directives from robots.txt.
func (s *SitemapSource) robotsSitemaps(ctx context.Context, base *url.URL) ([]string, error) {
	body, err := s.fetcher.Fetch(ctx, base.Scheme+"://"+base.Host+"/robots.txt")
	if err != nil {
		return nil, err
	}

	var sitemaps []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Case-insensitive check for Sitemap: directive
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			sitemapURL := strings.TrimSpace(line[len("sitemap:"):])
			if sitemapURL != "" {
				sitemaps = append(sitemaps, sitemapURL)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "reading robots.txt: %v", err)
	}
	return sitemaps, nil
}

// ParseSitemap parses a sitemap body. It returns the page URLs of a
// <urlset>, the child sitemap URLs of a <sitemapindex>, or, for bodies
// that are not XML, every absolute http(s) URL listed one per line.
func ParseSitemap(body string) (urls []string, children []string, err error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(body, "\ufeff"))
	if trimmed == "" {
		return nil, nil, docpack.Errorf(docpack.EINVALID, "empty sitemap")
	}

	if !strings.HasPrefix(trimmed, "<") {
		return parsePlainSitemap(trimmed), nil, nil
	}
	if docpack.LooksLikeHTML(trimmed) {
		return nil, nil, docpack.Errorf(docpack.EINVALID, "sitemap is an HTML page")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(trimmed); err != nil {
		return nil, nil, docpack.Errorf(docpack.EINVALID, "parsing sitemap XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, nil, docpack.Errorf(docpack.EINVALID, "empty sitemap XML")
	}

	switch root.Tag {
	case "sitemapindex":
		return nil, locs(root, "sitemap"), nil
	case "urlset":
		return locs(root, "url"), nil, nil
	}
	return nil, nil, docpack.Errorf(docpack.EINVALID, "unexpected sitemap root <%s>", root.Tag)
}

// locs returns the trimmed <loc> text of every child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func parsePlainSitemap(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		u, err := url.Parse(line)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// sameOrigin drops URLs that do not share base's scheme and host.
func sameOrigin(base *url.URL, urls []string) []string {
	var out []string
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || !docpack.SameOrigin(base, u) {
			continue
		}
		out = append(out, raw)
	}
	return out
}

// sitemapPages turns sitemap URLs into pages. The level is the depth below
// sourceDir and the section is the title of the parent directory.
func sitemapPages(urls []string, sourceDir string) []docpack.DocPage {
	pages := make([]docpack.DocPage, 0, len(urls))
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		rel := u.Path
		if docpack.HasPathPrefix(raw, sourceDir) {
			rel = strings.TrimPrefix(rel, strings.TrimSuffix(sourceDir, "/"))
		}
		segs := strings.FieldsFunc(rel, func(r rune) bool { return r == '/' })

		level, section := 0, ""
		if len(segs) > 1 {
			level = len(segs) - 1
			section = docpack.TitleFromPath("/" + segs[len(segs)-2])
		}
		pages = append(pages, docpack.NewDocPage(raw, "", level, section))
	}
	return pages
}
