// Package readability extracts article content for single-page rescue
// imports.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/docpack"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docpack.Extractor at compile time.
var _ docpack.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. Relative links
// are resolved against pageURL when it is absolute.
func (e *Extractor) Extract(rawHTML, pageURL string) (*docpack.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docpack.Errorf(docpack.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "no readable content in %s: %v", pageURL, err)
	}

	return &docpack.ExtractResult{
		Title:       trimSiteName(strings.TrimSpace(article.Title), article.SiteName),
		ContentHTML: article.Content,
	}, nil
}

// titleSeparators join a page title to its site name in <title>.
var titleSeparators = []string{" | ", " - ", " – ", " — ", " · "}

// trimSiteName removes a trailing site name from title, so a rescued page
// titled "Install | Acme Docs" is listed as "Install".
func trimSiteName(title, siteName string) string {
	siteName = strings.TrimSpace(siteName)
	if siteName == "" {
		return title
	}
	for _, sep := range titleSeparators {
		if head, ok := strings.CutSuffix(title, sep+siteName); ok && strings.TrimSpace(head) != "" {
			return strings.TrimSpace(head)
		}
	}
	return title
}
