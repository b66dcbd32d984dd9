package crawl

import "github.com/fwojciec/docpack"

// renderedGrowth is how much longer the rendered content must be before
// the browser copy of a page is preferred.
const renderedGrowth = 1.5

// ContentDiffers reports whether the browser-rendered copy of a page
// carries significantly more content than the static copy, which means the
// site builds its pages with JavaScript. Extraction errors count as a
// difference.
func ContentDiffers(staticHTML, renderedHTML, pageURL string, extractor docpack.Extractor) bool {
	static, err := extractor.Extract(staticHTML, pageURL)
	if err != nil {
		return true
	}
	rendered, err := extractor.Extract(renderedHTML, pageURL)
	if err != nil {
		return true
	}

	staticLen := len(static.ContentHTML)
	renderedLen := len(rendered.ContentHTML)
	if staticLen == 0 {
		return renderedLen > 0
	}
	return float64(renderedLen) > float64(staticLen)*renderedGrowth
}
