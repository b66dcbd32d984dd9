// Package gofpdf prints books to PDF without a browser. The output is
// plain text laid out from each page's Markdown: headings, paragraphs,
// lists and code blocks, without images or tables.
package gofpdf

import (
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/docpack"
	"github.com/jung-kurt/gofpdf"
)

// Ensure Renderer implements docpack.Renderer at compile time.
var _ docpack.Renderer = (*Renderer)(nil)

var (
	numberedItemRe = regexp.MustCompile(`^\d+[.)]\s`)
	boldRe         = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	italicRe       = regexp.MustCompile(`(^|\s)[*_]([^*_]+)[*_](\s|$|[.,;:!?])`)
	inlineCodeRe   = regexp.MustCompile("`([^`]+)`")
	imageRe        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe         = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	tableRuleRe    = regexp.MustCompile(`^\|?\s*:?-{3,}`)
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}

// Renderer lays out a book as an A4 PDF with gofpdf.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns the PDF for book. Pages follow the section order of the
// table of contents.
func (r *Renderer) Render(ctx context.Context, book *docpack.Book) ([]byte, error) {
	if book == nil || len(book.Contents) == 0 {
		return nil, docpack.Errorf(docpack.EINVALID, "nothing to render")
	}
	site := book.Site
	if site == nil {
		site = &docpack.DocSite{}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	title := site.Title
	if title == "" {
		title = site.BaseURL
	}
	pdf.SetTitle(title, true)

	groups := docpack.GroupBySection(book.Contents)
	links := make([]int, 0, len(book.Contents))
	for range book.Contents {
		links = append(links, pdf.AddLink())
	}

	writeCover(pdf, tr, title, site.BaseURL, len(book.Contents), book.GeneratedAt)
	writeTOC(pdf, tr, groups, links)

	n := 0
	for _, g := range groups {
		for _, c := range g.Contents {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			pdf.AddPage()
			pdf.SetLink(links[n], 0, -1)
			n++
			writePage(pdf, tr, c)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, docpack.Errorf(docpack.EINTERNAL, "writing PDF: %v", err)
	}
	return buf.Bytes(), nil
}

func writeCover(pdf *gofpdf.Fpdf, tr func(string) string, title, source string, pages int, at time.Time) {
	pdf.AddPage()
	pdf.Ln(80)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.MultiCell(0, 12, tr(title), "", "C", false)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(90, 90, 90)
	noun := "pages"
	if pages == 1 {
		noun = "page"
	}
	pdf.MultiCell(0, 6, strconv.Itoa(pages)+" "+noun, "", "C", false)
	if !at.IsZero() {
		pdf.MultiCell(0, 6, "Generated "+at.UTC().Format("January 2, 2006 15:04 MST"), "", "C", false)
	}
	if source != "" {
		pdf.MultiCell(0, 6, tr(source), "", "C", false)
	}
	pdf.SetTextColor(0, 0, 0)
}

func writeTOC(pdf *gofpdf.Fpdf, tr func(string) string, groups []docpack.SectionGroup, links []int) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 10, "Contents", "", "L", false)
	n := 0
	for _, g := range groups {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 7, tr(g.Name), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		for _, c := range g.Contents {
			label := c.Title
			if label == "" {
				label = c.URL
			}
			pdf.CellFormat(0, 6, tr("   "+label), "", 1, "L", false, links[n], "")
			n++
		}
	}
}

func writePage(pdf *gofpdf.Fpdf, tr func(string) string, c *docpack.PageContent) {
	if docpack.FirstHeading(c.Markdown) == "" && c.Title != "" {
		writeHeading(pdf, tr, c.Title, 1)
	}

	inCode := false
	for _, line := range strings.Split(c.Markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inCode = !inCode
			pdf.Ln(2)
			continue
		}
		if inCode {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(strings.ReplaceAll(line, "\t", "    ")), "", "L", true)
			continue
		}

		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			writeHeading(pdf, tr, strings.TrimSpace(strings.TrimLeft(trimmed, "#")), level)
		case tableRuleRe.MatchString(trimmed):
			// Table separator rows carry no text.
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "), strings.HasPrefix(trimmed, "+ "):
			pdf.SetFont("Helvetica", "", 10)
			indent := strings.Repeat("  ", (len(line)-len(strings.TrimLeft(line, " ")))/2)
			pdf.MultiCell(0, 5, tr(indent+"• "+cleanInline(trimmed[2:])), "", "L", false)
		case numberedItemRe.MatchString(trimmed):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInline(trimmed)), "", "L", false)
		case strings.HasPrefix(trimmed, ">"):
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(90, 90, 90)
			pdf.MultiCell(0, 5, tr(cleanInline(strings.TrimSpace(strings.TrimLeft(trimmed, ">")))), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInline(strings.Trim(trimmed, "|"))), "", "L", false)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 4, tr("Source: "+c.URL), "T", "L", false)
	pdf.SetTextColor(0, 0, 0)
}

func writeHeading(pdf *gofpdf.Fpdf, tr func(string) string, text string, level int) {
	size, ok := headingSizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, tr(cleanInline(text)), "", "L", false)
	pdf.Ln(2)
}

// cleanInline strips inline Markdown formatting, keeping the text.
func cleanInline(text string) string {
	text = imageRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = boldRe.ReplaceAllString(text, "$1$2")
	text = italicRe.ReplaceAllString(text, "$1$2$3")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
