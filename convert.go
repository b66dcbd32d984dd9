package docpack

import "context"

// ExtractResult is the main content of one fetched page.
type ExtractResult struct {
	// Title comes from the article heading or the document metadata.
	Title string

	// ContentHTML is the article body with navigation, footers and scripts
	// stripped.
	ContentHTML string
}

// Extractor isolates the article of a documentation page.
type Extractor interface {
	// Extract returns the main content of html. Relative links are resolved
	// against pageURL.
	Extract(html, pageURL string) (*ExtractResult, error)
}

// Converter turns extracted article HTML into Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// TokenCounter estimates how large an assembled book is for a language
// model's context window.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
