// Package goquery implements HTML inspection on top of goquery: framework
// detection, sidebar page extraction, content extraction and the content
// quality gate.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docpack"
)

var _ docpack.Inspector = (*Detector)(nil)

// generatorSignature maps a substring of <meta name="generator"> content to
// a framework.
type generatorSignature struct {
	needle    string
	framework docpack.Framework
}

// structuralSignature maps CSS selectors to a framework. Any match counts.
type structuralSignature struct {
	framework docpack.Framework
	selectors []string
}

// globalSignature maps a global variable defined by inline scripts to a
// framework. When also is set, the script text must contain it too.
type globalSignature struct {
	framework docpack.Framework
	global    string
	also      string
}

// Signatures are ordered: more specific markers come first.
var (
	generatorSignatures = []generatorSignature{
		{"docusaurus", docpack.FrameworkDocusaurus},
		{"vitepress", docpack.FrameworkVitePress},
		{"vuepress", docpack.FrameworkVuePress},
		{"mkdocs", docpack.FrameworkMkDocs},
		{"sphinx", docpack.FrameworkSphinx},
		{"gitbook", docpack.FrameworkGitBook},
		{"nextra", docpack.FrameworkNextra},
		{"mintlify", docpack.FrameworkMintlify},
		{"starlight", docpack.FrameworkStarlight},
		{"antora", docpack.FrameworkAntora},
		{"docsify", docpack.FrameworkDocsify},
		{"mdbook", docpack.FrameworkMdBook},
		{"readme", docpack.FrameworkReadme},
	}

	structuralSignatures = []structuralSignature{
		{docpack.FrameworkDocusaurus, []string{"#__docusaurus", "#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container"}},
		{docpack.FrameworkVitePress, []string{"#VPContent", ".VPDoc", ".VPSidebar"}},
		{docpack.FrameworkMkDocs, []string{"[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"}},
		{docpack.FrameworkReadTheDocs, []string{".wy-nav-side", ".wy-menu-vertical"}},
		{docpack.FrameworkSphinx, []string{".sphinxsidebar", ".toctree-wrapper", ".bd-sidebar-primary"}},
		{docpack.FrameworkStarlight, []string{"starlight-menu-button", ".sl-markdown-content", "#starlight__sidebar"}},
		{docpack.FrameworkMintlify, []string{"#navigation-items", "#sidebar-content", "[data-mint-version]"}},
		{docpack.FrameworkNextra, []string{".nextra-sidebar-container", ".nextra-sidebar", ".nextra-navbar", ".nextra-toc"}},
		{docpack.FrameworkGitBook, []string{"[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']", ".book-summary"}},
		{docpack.FrameworkMdBook, []string{"#mdbook-sidebar", "mdbook-sidebar-scrollbox", "#sidebar .chapter", ".sidebar-scrollbox .chapter"}},
		{docpack.FrameworkAntora, []string{".nav-container .nav-menu", "nav.nav .nav-panel-menu"}},
		{docpack.FrameworkReadme, []string{".rm-Sidebar", ".rm-Article", "#ssr-main .rm-Container"}},
		{docpack.FrameworkDocsify, []string{".sidebar-nav .app-name", "section.content .markdown-section"}},
		{docpack.FrameworkVuePress, []string{".theme-default-content", ".sidebar-links", ".vuepress-navbar", ".vp-sidebar"}},
	}

	globalSignatures = []globalSignature{
		{docpack.FrameworkDocsify, "$docsify", ""},
		{docpack.FrameworkVitePress, "__VP_SITE_DATA__", ""},
		{docpack.FrameworkVitePress, "__VP_HASH_MAP__", ""},
		{docpack.FrameworkVuePress, "__VUEPRESS_", ""},
		{docpack.FrameworkDocusaurus, "__DOCUSAURUS", ""},
		{docpack.FrameworkMdBook, "path_to_root", ""},
		{docpack.FrameworkSphinx, "DOCUMENTATION_OPTIONS", ""},
		{docpack.FrameworkGitBook, "__GITBOOK", ""},
		{docpack.FrameworkMintlify, "__NEXT_DATA__", "mintlify"},
		{docpack.FrameworkNextra, "__NEXT_DATA__", "nextra"},
		{docpack.FrameworkReadme, "__README", ""},
	}
)

// jsFrameworks render their navigation client-side.
var jsFrameworks = map[docpack.Framework]bool{
	docpack.FrameworkGitBook:  true,
	docpack.FrameworkDocsify:  true,
	docpack.FrameworkMintlify: true,
	docpack.FrameworkReadme:   true,
	docpack.FrameworkNextra:   true,
}

// Detector identifies documentation frameworks from HTML content.
// It checks the generator meta tag first, then framework-specific CSS
// classes and ids, then global variables defined by inline scripts.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) Detect(html string) docpack.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return docpack.FrameworkUnknown
	}
	return d.detectDocument(doc)
}

func (d *Detector) detectDocument(doc *goquery.Document) docpack.Framework {
	if framework := d.detectFromMetaGenerator(doc); framework != docpack.FrameworkUnknown {
		return framework
	}

	for _, sig := range structuralSignatures {
		for _, selector := range sig.selectors {
			if d.hasSelector(doc, selector) {
				return sig.framework
			}
		}
	}

	if d.hasGitBookClasses(doc) {
		return docpack.FrameworkGitBook
	}

	scripts := d.inlineScripts(doc)
	for _, sig := range globalSignatures {
		if strings.Contains(scripts, sig.global) &&
			(sig.also == "" || strings.Contains(strings.ToLower(scripts), sig.also)) {
			return sig.framework
		}
	}

	return docpack.FrameworkUnknown
}

// RequiresJS reports whether the framework renders its navigation with
// JavaScript, so a plain HTTP fetch sees an empty sidebar.
func (d *Detector) RequiresJS(framework docpack.Framework) (requires bool, known bool) {
	if framework == docpack.FrameworkUnknown {
		return false, false
	}
	return jsFrameworks[framework], true
}

// detectFromMetaGenerator checks the meta generator tag for framework identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) docpack.Framework {
	generator := ""
	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		if name, _ := s.Attr("name"); !strings.EqualFold(name, "generator") {
			return
		}
		if content, exists := s.Attr("content"); exists {
			generator += " " + strings.ToLower(content)
		}
	})

	if strings.TrimSpace(generator) == "" {
		return docpack.FrameworkUnknown
	}

	for _, sig := range generatorSignatures {
		if !strings.Contains(generator, sig.needle) {
			continue
		}
		// Read the Docs builds are Sphinx with a distinct navigation.
		if sig.framework == docpack.FrameworkSphinx && d.hasSelector(doc, ".wy-menu-vertical") {
			return docpack.FrameworkReadTheDocs
		}
		return sig.framework
	}

	return docpack.FrameworkUnknown
}

// inlineScripts concatenates the text of every script without a src.
func (d *Detector) inlineScripts(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("src"); ok {
			return
		}
		b.WriteString(s.Text())
		b.WriteString("\n")
	})
	return b.String()
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// hasGitBookClasses checks for GitBook-specific classes on the html element.
// GitBook uses a combination of: circular-corners, theme-clean, tint
func (d *Detector) hasGitBookClasses(doc *goquery.Document) bool {
	htmlClass, _ := doc.Find("html").First().Attr("class")
	if htmlClass == "" {
		return false
	}

	count := 0
	for _, class := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(htmlClass, class) {
			count++
		}
	}

	return count >= 2
}
