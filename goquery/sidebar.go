package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docpack"
)

var _ docpack.SidebarExtractor = (*SidebarExtractor)(nil)

// sidebarStrategy describes where a framework keeps its navigation.
type sidebarStrategy struct {
	// links are candidate link selectors; the first one that yields a
	// valid link wins.
	links []string

	// nested matches list containers below the top level; each matching
	// ancestor adds one level.
	nested string

	// group matches ancestors that may carry a section label among their
	// children (label).
	group string
	label string

	// caption matches a preceding sibling of an ancestor that names the
	// section (Sphinx captions, mdBook part titles).
	caption string

	// hashRoutes treats "#/path" links as site paths (docsify).
	hashRoutes bool
}

// strategyFor returns the sidebar strategy for a framework. Every known
// framework has its own case.
func strategyFor(framework docpack.Framework) sidebarStrategy {
	switch framework {
	case docpack.FrameworkDocusaurus:
		return sidebarStrategy{
			links:  []string{".theme-doc-sidebar-container a.menu__link[href]", "nav.menu a.menu__link[href]", "aside .menu a[href]"},
			nested: "ul.menu__list ul.menu__list",
			group:  "li.menu__list-item",
			label:  ".menu__list-item-collapsible, a.menu__link--sublist",
		}
	case docpack.FrameworkVitePress:
		return sidebarStrategy{
			links:  []string{".VPSidebar a.VPLink[href]", ".VPSidebar a[href]", "#VPSidebarNav a[href]"},
			nested: ".VPSidebarItem .VPSidebarItem",
			group:  ".VPSidebarItem",
			label:  ".item",
		}
	case docpack.FrameworkVuePress:
		return sidebarStrategy{
			links:  []string{".sidebar-links a.sidebar-link[href]", ".vp-sidebar a[href]", ".sidebar a[href]"},
			nested: "ul ul",
			group:  "section.sidebar-group, .vp-sidebar-group",
			label:  ".sidebar-heading, .vp-sidebar-header",
		}
	case docpack.FrameworkMkDocs:
		return sidebarStrategy{
			links:  []string{".md-nav--primary a.md-nav__link[href]", ".md-sidebar--primary a[href]", "nav[data-md-component='navigation'] a[href]"},
			nested: ".md-nav__list .md-nav__list",
			group:  "li.md-nav__item",
			label:  "label.md-nav__link, .md-nav__link",
		}
	case docpack.FrameworkSphinx:
		return sidebarStrategy{
			links:   []string{".sphinxsidebar a.reference.internal[href]", ".bd-sidebar-primary a.reference[href]", ".sphinxsidebarwrapper a[href]", ".toctree-wrapper a.reference.internal[href]"},
			nested:  "ul ul",
			group:   "li[class*='toctree-l']",
			label:   "a",
			caption: "p.caption, .caption",
		}
	case docpack.FrameworkReadTheDocs:
		return sidebarStrategy{
			links:   []string{".wy-menu-vertical a.reference.internal[href]", ".wy-menu-vertical a[href]", "nav.wy-nav-side a[href]"},
			nested:  "ul ul",
			group:   "li[class*='toctree-l']",
			label:   "a",
			caption: "p.caption, .caption",
		}
	case docpack.FrameworkGitBook:
		return sidebarStrategy{
			links:   []string{"[data-testid='space.sidebar'] a[href]", ".book-summary a[href]", "aside a[href]"},
			nested:  "ul ul",
			group:   "li",
			label:   "span, p, div:not(:has(a))",
			caption: "h5, h4, div:not(:has(a))",
		}
	case docpack.FrameworkNextra:
		return sidebarStrategy{
			links:  []string{".nextra-sidebar-container a[href]", ".nextra-sidebar a[href]", "aside a[href]"},
			nested: "ul ul",
			group:  "li",
			label:  "button, span",
		}
	case docpack.FrameworkMintlify:
		return sidebarStrategy{
			links:   []string{"#navigation-items a[href]", "#sidebar-content a[href]", "#sidebar a[href]"},
			nested:  "ul ul",
			group:   "li",
			label:   "button, span",
			caption: "h5, .sidebar-group-header",
		}
	case docpack.FrameworkDocsify:
		return sidebarStrategy{
			links:      []string{".sidebar-nav a[href]", ".sidebar a[href]"},
			nested:     "ul ul",
			group:      "li",
			label:      "p, strong",
			hashRoutes: true,
		}
	case docpack.FrameworkStarlight:
		return sidebarStrategy{
			links:  []string{"#starlight__sidebar a[href]", "nav.sidebar a[href]", ".sidebar-content a[href]"},
			nested: "ul ul",
			group:  "details",
			label:  "summary",
		}
	case docpack.FrameworkMdBook:
		return sidebarStrategy{
			links:   []string{"#sidebar ol.chapter a[href]", "mdbook-sidebar-scrollbox a[href]", ".sidebar-scrollbox a[href]"},
			nested:  "ol.section",
			caption: "li.part-title",
		}
	case docpack.FrameworkReadme:
		return sidebarStrategy{
			links:  []string{".rm-Sidebar a.rm-Sidebar-link[href]", ".rm-Sidebar a[href]", "nav[aria-label] a[href]"},
			nested: ".rm-Sidebar-list .rm-Sidebar-list",
			group:  "section, .rm-Sidebar-section",
			label:  "h2, h3, .rm-Sidebar-heading",
		}
	case docpack.FrameworkAntora:
		return sidebarStrategy{
			links:  []string{".nav-menu a.nav-link[href]", "nav.nav-menu a[href]", ".nav-panel-menu a[href]"},
			nested: ".nav-list .nav-list",
			group:  "li.nav-item",
			label:  ".nav-text, .nav-link",
		}
	case docpack.FrameworkUnknown:
		return genericStrategy
	}
	return genericStrategy
}

// genericStrategy covers unknown frameworks with common navigation markup.
var genericStrategy = sidebarStrategy{
	links: []string{
		"aside nav a[href]",
		"nav.sidebar a[href]",
		".sidebar a[href]",
		"#sidebar a[href]",
		"aside a[href]",
		"[role='navigation'] a[href]",
		".toc a[href]",
		".menu a[href]",
		"nav a[href]",
	},
	nested:  "ul ul",
	group:   "li",
	label:   "span, p, strong, button",
	caption: "h2, h3, h4, h5, h6",
}

// SidebarExtractor pulls the page list out of a documentation sidebar.
type SidebarExtractor struct {
	// MinGenericLinks is the number of links the generic strategy must
	// exceed to be accepted.
	MinGenericLinks int
}

// NewSidebarExtractor creates a SidebarExtractor with default thresholds.
func NewSidebarExtractor() *SidebarExtractor {
	return &SidebarExtractor{MinGenericLinks: docpack.DefaultThresholds().MinGenericLinks}
}

// ExtractPages returns the in-site pages linked from the sidebar. Known
// frameworks use their own selectors; unknown ones use the generic
// strategy, which must yield more than MinGenericLinks links. A known
// framework whose selectors match nothing also falls back to the generic
// strategy.
func (e *SidebarExtractor) ExtractPages(html string, framework docpack.Framework, baseURL string) []docpack.DocPage {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	if framework != docpack.FrameworkUnknown {
		if pages := e.extract(doc, base, strategyFor(framework), 1); len(pages) > 0 {
			return pages
		}
	}

	return e.extract(doc, base, genericStrategy, e.MinGenericLinks+1)
}

// extract tries each link selector in order and returns the first result
// with at least minLinks pages.
func (e *SidebarExtractor) extract(doc *goquery.Document, base *url.URL, s sidebarStrategy, minLinks int) []docpack.DocPage {
	for _, selector := range s.links {
		pages := e.collect(doc.Find(selector), base, s)
		if len(pages) >= minLinks {
			return pages
		}
	}
	return nil
}

// collect converts matched anchors into deduplicated pages.
func (e *SidebarExtractor) collect(anchors *goquery.Selection, base *url.URL, s sidebarStrategy) []docpack.DocPage {
	var pages []docpack.DocPage
	anchors.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		resolved, ok := resolveLink(base, href, s.hashRoutes)
		if !ok {
			return
		}

		title := linkText(a)
		level := 0
		if s.nested != "" {
			level = a.ParentsFiltered(s.nested).Length()
		}

		pages = append(pages, docpack.NewDocPage(resolved, title, level, sectionFor(a, title, s)))
	})
	return docpack.DedupePages(pages)
}

// resolveLink validates href and resolves it against base. It rejects
// empty links, in-page anchors, script and other non-HTTP links, and links
// to another origin.
func resolveLink(base *url.URL, href string, hashRoutes bool) (string, bool) {
	href = strings.TrimSpace(href)
	if hashRoutes && strings.HasPrefix(href, "#/") {
		href = "./" + strings.TrimPrefix(href, "#/")
	}
	if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	if !docpack.SameOrigin(base, resolved) {
		return "", false
	}
	return resolved.String(), true
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// linkText returns the visible text of a link, falling back to its title
// and aria-label attributes.
func linkText(a *goquery.Selection) string {
	if text := collapseSpace(a.Text()); text != "" {
		return text
	}
	for _, attr := range []string{"title", "aria-label"} {
		if v, ok := a.Attr(attr); ok && collapseSpace(v) != "" {
			return collapseSpace(v)
		}
	}
	return ""
}

// sectionFor walks up from the link and returns the nearest group label or
// caption that is not the link's own text.
func sectionFor(a *goquery.Selection, title string, s sidebarStrategy) string {
	var section string
	a.Parents().EachWithBreak(func(_ int, parent *goquery.Selection) bool {
		if s.group != "" && s.label != "" && parent.Is(s.group) {
			label := collapseSpace(parent.ChildrenFiltered(s.label).First().Text())
			if label != "" && label != title {
				section = label
				return false
			}
		}
		if s.caption != "" {
			if caption := collapseSpace(parent.PrevAllFiltered(s.caption).First().Text()); caption != "" {
				section = caption
				return false
			}
		}
		return true
	})
	return section
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
