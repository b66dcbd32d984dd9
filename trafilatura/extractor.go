// Package trafilatura extracts the main content of pages whose markup has
// no recognisable documentation container.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/docpack"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docpack.Extractor at compile time.
var _ docpack.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. Links and
// tables are kept since documentation relies on both.
func (e *Extractor) Extract(rawHTML, pageURL string) (*docpack.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docpack.Errorf(docpack.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		IncludeLinks:    true,
		ExcludeComments: true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "no main content in %s: %v", pageURL, err)
	}

	title := strings.TrimSpace(result.Metadata.Title)
	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, docpack.Errorf(docpack.EINTERNAL, "rendering content of %s: %v", pageURL, err)
		}
		if title == "" {
			title = firstHeadingText(result.ContentNode)
		}
	}

	return &docpack.ExtractResult{
		Title:       title,
		ContentHTML: contentHTML,
	}, nil
}

// firstHeadingText returns the text of the first h1 below n, for pages
// whose metadata carries no title.
func firstHeadingText(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "h1" {
		return strings.Join(strings.Fields(nodeText(n)), " ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := firstHeadingText(c); t != "" {
			return t
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
