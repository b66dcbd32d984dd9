// Package goldmark assembles fetched pages into one printable HTML
// document, rendering each page's Markdown with goldmark.
package goldmark

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/docpack"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Ensure Assembler implements docpack.Assembler.
var _ docpack.Assembler = (*Assembler)(nil)

// Assembler builds the book: a cover, a table of contents grouped by
// section and every page on its own print page.
type Assembler struct {
	md goldmark.Markdown
}

// NewAssembler creates an Assembler rendering GitHub Flavored Markdown.
func NewAssembler() *Assembler {
	return &Assembler{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithXHTML()),
		),
	}
}

// Assemble returns the HTML document for contents with generatedAt on the
// cover. It returns EINVALID when there is nothing to assemble.
func (a *Assembler) Assemble(site *docpack.DocSite, contents []*docpack.PageContent, generatedAt time.Time) (string, error) {
	if len(contents) == 0 {
		return "", docpack.Errorf(docpack.EINVALID, "no pages to assemble")
	}
	if site == nil {
		site = &docpack.DocSite{}
	}

	title := site.Title
	if title == "" {
		title = site.BaseURL
	}
	groups := docpack.GroupBySection(contents)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("<style>" + stylesheet + "</style>\n</head>\n<body>\n")

	writeCover(&b, site, title, len(contents), generatedAt)
	b.WriteString(pageBreak)
	writeTOC(&b, groups)

	n := 0
	for _, g := range groups {
		for _, c := range g.Contents {
			n++
			b.WriteString(pageBreak)
			if err := a.writePage(&b, n, c); err != nil {
				return "", err
			}
		}
	}

	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

const pageBreak = "<div class=\"page-break\"></div>\n"

func writeCover(b *strings.Builder, site *docpack.DocSite, title string, pages int, at time.Time) {
	b.WriteString("<section class=\"cover\">\n")
	b.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")
	noun := "pages"
	if pages == 1 {
		noun = "page"
	}
	fmt.Fprintf(b, "<p class=\"meta\">%d %s</p>\n", pages, noun)
	fmt.Fprintf(b, "<p class=\"meta\">Generated %s</p>\n", at.UTC().Format("January 2, 2006 15:04 MST"))
	if site.BaseURL != "" {
		u := html.EscapeString(site.BaseURL)
		b.WriteString("<p class=\"source\"><a href=\"" + u + "\">" + u + "</a></p>\n")
	}
	b.WriteString("</section>\n")
}

func writeTOC(b *strings.Builder, groups []docpack.SectionGroup) {
	b.WriteString("<nav class=\"toc\">\n<h2>Contents</h2>\n")
	n := 0
	for _, g := range groups {
		b.WriteString("<h3>" + html.EscapeString(g.Name) + "</h3>\n<ol>\n")
		for _, c := range g.Contents {
			n++
			fmt.Fprintf(b, "<li><a href=\"#%s\">%s</a>", pageID(n), html.EscapeString(pageTitle(c)))
			writeOutline(b, c.Markdown)
			b.WriteString("</li>\n")
		}
		b.WriteString("</ol>\n")
	}
	b.WriteString("</nav>\n")
}

// writeOutline lists the second-level headings of a page under its
// contents entry.
func writeOutline(b *strings.Builder, markdown string) {
	var titles []string
	for _, s := range docpack.ExtractSections(markdown) {
		if s.Level == 2 {
			titles = append(titles, s.Title)
		}
	}
	if len(titles) == 0 {
		return
	}
	b.WriteString("\n<ul class=\"outline\">\n")
	for _, t := range titles {
		b.WriteString("<li>" + html.EscapeString(t) + "</li>\n")
	}
	b.WriteString("</ul>\n")
}

func (a *Assembler) writePage(b *strings.Builder, n int, c *docpack.PageContent) error {
	var body bytes.Buffer
	if err := a.md.Convert([]byte(c.Markdown), &body); err != nil {
		return docpack.Errorf(docpack.EINTERNAL, "rendering %s: %v", c.URL, err)
	}

	fmt.Fprintf(b, "<article class=\"page\" id=\"%s\">\n", pageID(n))
	if docpack.FirstHeading(c.Markdown) == "" {
		b.WriteString("<h1>" + html.EscapeString(pageTitle(c)) + "</h1>\n")
	}
	b.Write(body.Bytes())
	u := html.EscapeString(c.URL)
	b.WriteString("<p class=\"page-source\">Source: <a href=\"" + u + "\">" + u + "</a></p>\n")
	b.WriteString("</article>\n")
	return nil
}

func pageID(n int) string {
	return "page-" + strconv.Itoa(n)
}

func pageTitle(c *docpack.PageContent) string {
	if c.Title != "" {
		return c.Title
	}
	return c.URL
}

const stylesheet = `
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, "Noto Sans CJK SC", sans-serif; font-size: 11pt; line-height: 1.55; color: #1f2328; margin: 0 auto; max-width: 48em; padding: 0 1.5em; }
h1, h2, h3, h4 { line-height: 1.25; margin: 1.4em 0 0.5em; }
a { color: #0969da; text-decoration: none; }
pre { background: #f6f8fa; border-radius: 6px; padding: 0.8em 1em; overflow-x: auto; white-space: pre-wrap; word-wrap: break-word; }
code { font-family: ui-monospace, Menlo, Consolas, monospace; font-size: 0.9em; }
:not(pre) > code { background: #eff1f3; border-radius: 4px; padding: 0.1em 0.3em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #d0d7de; padding: 0.35em 0.7em; }
blockquote { border-left: 4px solid #d0d7de; color: #57606a; margin: 1em 0; padding: 0 1em; }
img { max-width: 100%; }
.cover { text-align: center; padding-top: 30vh; }
.cover h1 { font-size: 2.4em; }
.meta { color: #57606a; margin: 0.3em 0; }
.toc ol { padding-left: 1.4em; }
.toc li { margin: 0.2em 0; }
.toc .outline { color: #57606a; font-size: 0.9em; list-style: none; padding-left: 1em; }
.page-source { border-top: 1px solid #d0d7de; color: #57606a; font-size: 0.85em; margin-top: 2em; padding-top: 0.5em; word-break: break-all; }
.page-break { page-break-after: always; break-after: page; height: 0; }
@page { size: A4; margin: 16mm 14mm; }
@media print { body { max-width: none; } a { color: inherit; } }
`
