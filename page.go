package docpack

import (
	"context"
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DocPage is one discovered documentation page.
type DocPage struct {
	URL     string
	Title   string
	Path    string
	Level   int
	Section string
}

// NewDocPage builds a DocPage from a discovered link. The fragment is
// stripped from rawURL, the level is clamped and an empty title is derived
// from the URL path.
func NewDocPage(rawURL, title string, level int, section string) DocPage {
	u := StripFragment(rawURL)
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		title = TitleFromPath(u)
	}
	p := DocPage{
		URL:     u,
		Title:   title,
		Level:   ClampLevel(level),
		Section: strings.Join(strings.Fields(section), " "),
	}
	if parsed, err := url.Parse(u); err == nil {
		p.Path = parsed.Path
	}
	return p
}

// DocSite is a classified documentation site and its page list.
type DocSite struct {
	BaseURL   string
	Title     string
	Framework Framework
	Pages     []DocPage

	// Source names the discovery strategy that produced Pages.
	Source string

	// HasFullContentIndex is set when the site publishes a single file with
	// the content of every page (llms-full.txt).
	HasFullContentIndex bool
	FullContentURL      string
}

// PageContent is the fetched and cleaned content of one page.
type PageContent struct {
	URL       string
	Title     string
	Markdown  string
	Section   string
	WordCount int
}

// NewPageContent builds a PageContent and derives its word count.
func NewPageContent(pageURL, title, markdown, section string) *PageContent {
	return &PageContent{
		URL:       pageURL,
		Title:     title,
		Markdown:  markdown,
		Section:   section,
		WordCount: CountWords(markdown),
	}
}

// PageFailure records why a page was dropped from a batch.
type PageFailure struct {
	URL    string
	Reason string
}

// BatchResult holds the pages that were fetched and the ones that failed.
// Contents keep the order of the input page list.
type BatchResult struct {
	Contents []*PageContent
	Failures []PageFailure
}

// Discoverer produces the page list of the documentation site that pageURL
// belongs to.
type Discoverer interface {
	// Discover returns ENOTFOUND when no source yields any page.
	Discover(ctx context.Context, pageURL string) (*DocSite, error)
}

// DiscoveryStrategy is one source in the discovery chain. A strategy that
// cannot produce a sufficient page list returns an error; the chain moves
// on to the next strategy.
type DiscoveryStrategy interface {
	Name() string
	Discover(ctx context.Context, pageURL string) (*DocSite, error)
}

// ContentFetcher retrieves one page as cleaned Markdown.
type ContentFetcher interface {
	// FetchPage returns an error when the page could not be fetched,
	// converted or was rejected by the quality gate.
	FetchPage(ctx context.Context, page DocPage) (*PageContent, error)
}

// BatchFetcher fetches many pages and tolerates individual failures.
type BatchFetcher interface {
	// FetchAll returns ENOTFOUND only when no page could be fetched.
	FetchAll(ctx context.Context, pages []DocPage, progress ProgressFunc) (*BatchResult, error)
}

// FullContentFetcher fetches a site's full-content index file and splits
// it into pages.
type FullContentFetcher interface {
	FetchFullContent(ctx context.Context, site *DocSite) (*BatchResult, error)
}

// QualityGate distinguishes genuine content from block pages.
type QualityGate interface {
	// IsBlocked returns the reason the content looks blocked, or "" if the
	// content is accepted.
	IsBlocked(markdown, html, pageURL string) string
}

// PageStore persists pages to storage with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *PageContent) error
	Commit() error
	Abort() error
}

// StripFragment removes the #fragment from rawURL.
func StripFragment(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// NormalizeURL returns the key used to compare page URLs: fragment and
// trailing slash removed, scheme and host lower-cased.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(StripFragment(rawURL))
	if err != nil {
		return strings.TrimRight(StripFragment(rawURL), "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawPath = ""
	u.Path = strings.TrimRight(u.Path, "/")
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// DedupePages removes pages whose normalized URL was already seen.
// The first occurrence wins.
func DedupePages(pages []DocPage) []DocPage {
	seen := make(map[string]bool, len(pages))
	out := make([]DocPage, 0, len(pages))
	for _, p := range pages {
		key := NormalizeURL(p.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// ClampLevel limits a navigation level to [0, MaxLevel].
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// SameOrigin reports whether two URLs share scheme and host.
func SameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}

// Origin returns the scheme://host part of rawURL.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", Errorf(EINVALID, "URL %q is not absolute", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

var titleCaser = cases.Title(language.English)

// TitleFromPath derives a display title from the last path segment of
// rawURL: "/docs/getting-started.html" becomes "Getting Started".
func TitleFromPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		return u.Host
	}
	seg := path.Base(p)
	if unescaped, err := url.PathUnescape(seg); err == nil {
		seg = unescaped
	}
	seg = strings.TrimSuffix(seg, path.Ext(seg))
	seg = strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	seg = strings.Join(strings.Fields(seg), " ")
	if seg == "" {
		return u.Host
	}
	return titleCaser.String(seg)
}

// CountWords returns the number of whitespace-separated tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
