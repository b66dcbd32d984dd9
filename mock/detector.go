package mock

import "github.com/fwojciec/docpack"

var (
	_ docpack.FrameworkDetector = (*Detector)(nil)
	_ docpack.Inspector         = (*Inspector)(nil)
	_ docpack.SidebarExtractor  = (*SidebarExtractor)(nil)
)

// Detector is a mock implementation of docpack.FrameworkDetector.
type Detector struct {
	DetectFn func(html string) docpack.Framework
}

func (d *Detector) Detect(html string) docpack.Framework {
	return d.DetectFn(html)
}

// Inspector is a mock implementation of docpack.Inspector.
type Inspector struct {
	DetectFn     func(html string) docpack.Framework
	RequiresJSFn func(framework docpack.Framework) (requires bool, known bool)
}

func (p *Inspector) Detect(html string) docpack.Framework {
	return p.DetectFn(html)
}

func (p *Inspector) RequiresJS(framework docpack.Framework) (bool, bool) {
	return p.RequiresJSFn(framework)
}

// SidebarExtractor is a mock implementation of docpack.SidebarExtractor.
type SidebarExtractor struct {
	ExtractPagesFn func(html string, framework docpack.Framework, baseURL string) []docpack.DocPage
}

func (e *SidebarExtractor) ExtractPages(html string, framework docpack.Framework, baseURL string) []docpack.DocPage {
	return e.ExtractPagesFn(html, framework, baseURL)
}
