package http

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/docpack"
)

// Ensure LLMSTxtSource implements docpack.DiscoveryStrategy.
var _ docpack.DiscoveryStrategy = (*LLMSTxtSource)(nil)

// LLMSTxtSource discovers pages from the site's /llms.txt index and
// records whether /llms-full.txt is available.
type LLMSTxtSource struct {
	fetcher docpack.Fetcher

	MinPages int

	// Timeout bounds the index fetch; FullContentTimeout bounds the request
	// of the full-content file.
	Timeout            time.Duration
	FullContentTimeout time.Duration
}

// NewLLMSTxtSource creates an LLMSTxtSource that fetches through fetcher.
func NewLLMSTxtSource(fetcher docpack.Fetcher) *LLMSTxtSource {
	return &LLMSTxtSource{
		fetcher:            fetcher,
		MinPages:           docpack.DefaultThresholds().MinIndexPages,
		Timeout:            docpack.DefaultTimeouts().IndexFile,
		FullContentTimeout: docpack.DefaultTimeouts().FullContent,
	}
}

// Name returns the source name.
func (s *LLMSTxtSource) Name() string { return docpack.SourceLLMSTxt }

// Discover fetches {origin}/llms.txt and accepts it when it lists at least
// MinPages same-host pages.
func (s *LLMSTxtSource) Discover(ctx context.Context, pageURL string) (*docpack.DocSite, error) {
	origin, err := docpack.Origin(pageURL)
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse(origin)

	body, err := s.fetch(ctx, origin+"/llms.txt", s.Timeout)
	if err != nil {
		return nil, err
	}
	if docpack.LooksLikeHTML(body) {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "llms.txt at %s is an HTML page", origin)
	}

	title, pages := ParseLLMSTxt(body, base)
	if len(pages) < s.MinPages {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "llms.txt lists %d pages, need %d", len(pages), s.MinPages)
	}
	if title == "" {
		title = base.Host
	}

	site := &docpack.DocSite{
		BaseURL: origin,
		Title:   title,
		Pages:   pages,
		Source:  docpack.SourceLLMSTxt,
	}

	fullURL := origin + "/llms-full.txt"
	if full, err := s.fetch(ctx, fullURL, s.FullContentTimeout); err == nil &&
		strings.TrimSpace(full) != "" && !docpack.LooksLikeHTML(full) {
		site.HasFullContentIndex = true
		site.FullContentURL = fullURL
	}

	return site, nil
}

func (s *LLMSTxtSource) fetch(ctx context.Context, target string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.fetcher.Fetch(ctx, target)
}

var (
	llmsLinkRe    = regexp.MustCompile(`^\s*[-*+]\s*\[([^\]]*)\]\(\s*<?([^)\s>]+)>?(?:\s+"[^"]*")?\s*\)(?:\s*:\s*(.*))?$`)
	llmsHeadingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
)

// ParseLLMSTxt parses an llms.txt index. The first H1 is the site title,
// H2 headings name the section of the links that follow and H3 headings
// start a nested group one level deeper. Link targets are resolved against
// base, their .md suffix is removed and links to other hosts are dropped.
func ParseLLMSTxt(body string, base *url.URL) (title string, pages []docpack.DocPage) {
	var section string
	level := 0
	inFence := false

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if m := llmsHeadingRe.FindStringSubmatch(trimmed); m != nil {
			switch len(m[1]) {
			case 1:
				if title == "" {
					title = m[2]
				}
			case 2:
				section, level = m[2], 0
			case 3:
				section, level = m[2], 1
			}
			continue
		}

		m := llmsLinkRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ref, err := url.Parse(m[2])
		if err != nil {
			continue
		}
		u := base.ResolveReference(ref)
		if (u.Scheme != "http" && u.Scheme != "https") || !strings.EqualFold(u.Hostname(), base.Hostname()) {
			continue
		}
		u.Path = stripMarkdownSuffix(u.Path)
		u.RawPath = ""

		pages = append(pages, docpack.NewDocPage(u.String(), m[1], level, section))
	}

	return title, docpack.DedupePages(pages)
}

// stripMarkdownSuffix maps a Markdown mirror path back to its page path:
// "/docs/intro.md" gives "/docs/intro" and "/docs/index.html.md" gives
// "/docs/index.html".
func stripMarkdownSuffix(p string) string {
	switch {
	case strings.HasSuffix(p, "/index.md"):
		return strings.TrimSuffix(p, "index.md")
	case strings.HasSuffix(p, ".md"):
		return strings.TrimSuffix(p, ".md")
	}
	return p
}
