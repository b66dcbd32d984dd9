package goquery

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docpack"
)

var _ docpack.Extractor = (*ContentExtractor)(nil)

// contentRoots lists main content containers, most specific first.
var contentRoots = []string{
	".theme-doc-markdown",
	".vp-doc",
	".theme-default-content",
	".md-content__inner",
	".rst-content [itemprop='articleBody']",
	"[role='main'] .body",
	".sl-markdown-content",
	"#content-area",
	".mdx-content",
	".markdown-section",
	".rm-Article .markdown-body",
	"#content main",
	"article.doc",
	".markdown-body",
	"article",
	"main",
	"[role='main']",
	"#content",
	".content",
}

// noiseSelectors are removed from the content root before conversion.
var noiseSelectors = []string{
	"script", "style", "noscript", "template", "iframe", "svg", "form", "button",
	"nav", "aside:not(.starlight-aside)", "footer",
	".breadcrumbs", ".breadcrumb", "[aria-label='breadcrumbs']", ".theme-doc-breadcrumbs",
	".theme-doc-footer", ".theme-doc-toc-mobile", ".pagination-nav", ".theme-edit-this-page",
	".feedback", "[class*='feedback']", ".was-this-helpful", ".md-feedback",
	".VPDocFooter", ".prev-next", ".rst-footer-buttons", ".md-source-file",
	".headerlink", ".hash-link", ".copy-button", ".sr-only", ".skip-link", ".edit-link",
	".table-of-contents", ".toc",
}

// lineNumberSelectors mark line-number gutters inside code blocks.
var lineNumberSelectors = ".linenos, .lineno, .line-numbers-rows, .react-syntax-highlighter-line-number, .line-number"

var languageClassRe = regexp.MustCompile(`(?:^|\s)(?:language|lang|highlight-source|highlight)-([A-Za-z0-9_+#-]+)`)

// ContentExtractor selects the main content of a documentation page,
// strips navigation and widgets, and normalises framework code blocks to
// <pre><code class="language-x">.
type ContentExtractor struct {
	// Fallback is used when no content container matches and the whole
	// body would otherwise be converted.
	Fallback docpack.Extractor
}

// NewContentExtractor creates a ContentExtractor with an optional fallback.
func NewContentExtractor(fallback docpack.Extractor) *ContentExtractor {
	return &ContentExtractor{Fallback: fallback}
}

// Extract returns the page's main content and title.
func (e *ContentExtractor) Extract(rawHTML, pageURL string) (*docpack.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docpack.Errorf(docpack.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "failed to parse HTML: %v", err)
	}

	title := pageTitle(doc)

	root := contentRoot(doc)
	if root == nil {
		if e.Fallback != nil {
			if res, err := e.Fallback.Extract(rawHTML, pageURL); err == nil && strings.TrimSpace(res.ContentHTML) != "" {
				if res.Title == "" {
					res.Title = title
				}
				return res, nil
			}
		}
		root = doc.Find("body").First()
	}

	root.Find(strings.Join(noiseSelectors, ", ")).Remove()
	if h1 := collapseSpace(root.Find("h1").First().Text()); h1 != "" {
		title = h1
	}
	normalizeCodeBlocks(root)
	if base, err := url.Parse(pageURL); err == nil && base.IsAbs() {
		absolutizeLinks(root, base)
	}

	content, err := root.Html()
	if err != nil {
		return nil, docpack.Errorf(docpack.EINTERNAL, "failed to render content: %v", err)
	}

	return &docpack.ExtractResult{
		Title:       title,
		ContentHTML: content,
	}, nil
}

// contentRoot returns the first content container with text, or nil.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentRoots {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 && strings.TrimSpace(sel.Text()) != "" {
			return sel
		}
	}
	return nil
}

// pageTitle reads og:title or <title>.
func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok && collapseSpace(og) != "" {
		return collapseSpace(og)
	}
	return collapseSpace(doc.Find("title").First().Text())
}

// normalizeCodeBlocks rewrites every <pre> into a plain code block with a
// language class, dropping line numbers and per-line wrappers.
func normalizeCodeBlocks(root *goquery.Selection) {
	root.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		pre.Find(lineNumberSelectors).Remove()

		var code string
		if lines := pre.Find(".token-line"); lines.Length() > 0 {
			parts := make([]string, 0, lines.Length())
			lines.Each(func(_ int, line *goquery.Selection) {
				parts = append(parts, line.Text())
			})
			code = strings.Join(parts, "\n")
		} else {
			code = pre.Text()
		}
		code = strings.TrimRight(code, "\n ")

		lang := codeLanguage(pre)
		class := ""
		if lang != "" {
			class = fmt.Sprintf(` class="language-%s"`, html.EscapeString(lang))
		}
		pre.ReplaceWithHtml(fmt.Sprintf("<pre><code%s>%s</code></pre>", class, html.EscapeString(code)))
	})

	// VitePress and similar themes print the language as a label.
	root.Find("div[class*='language-'] > span.lang").Remove()
}

// codeLanguage reads the language from the block, its code child or its
// ancestors (Sphinx "highlight-python", Docusaurus "language-js").
func codeLanguage(pre *goquery.Selection) string {
	for _, attr := range []string{"data-language", "data-lang"} {
		if v, ok := pre.Attr(attr); ok && v != "" {
			return v
		}
	}
	candidates := []*goquery.Selection{pre.Find("code").First(), pre}
	pre.Parents().Slice(0, min(3, pre.Parents().Length())).Each(func(_ int, p *goquery.Selection) {
		candidates = append(candidates, p)
	})
	for _, sel := range candidates {
		if class, ok := sel.Attr("class"); ok {
			if m := languageClassRe.FindStringSubmatch(class); m != nil && m[1] != "default" && m[1] != "text" {
				return m[1]
			}
		}
	}
	return ""
}

// absolutizeLinks resolves relative links and images against base.
func absolutizeLinks(root *goquery.Selection, base *url.URL) {
	resolve := func(attr string) func(int, *goquery.Selection) {
		return func(_ int, sel *goquery.Selection) {
			v, ok := sel.Attr(attr)
			if !ok || v == "" || strings.HasPrefix(v, "#") || isNonHTTPLink(v) {
				return
			}
			ref, err := url.Parse(v)
			if err != nil {
				return
			}
			sel.SetAttr(attr, base.ResolveReference(ref).String())
		}
	}
	root.Find("a[href]").Each(resolve("href"))
	root.Find("img[src]").Each(resolve("src"))
}
