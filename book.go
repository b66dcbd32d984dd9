package docpack

import (
	"context"
	"strings"
	"time"
)

// DefaultSection groups pages that have no section.
const DefaultSection = "General"

// Book is an assembled document ready to be rendered.
type Book struct {
	Site        *DocSite
	Contents    []*PageContent
	HTML        string
	GeneratedAt time.Time
}

// Assembler builds one HTML document out of fetched pages.
type Assembler interface {
	// Assemble returns EINVALID when contents is empty. generatedAt is the
	// time printed on the cover and stored on the Book.
	Assemble(site *DocSite, contents []*PageContent, generatedAt time.Time) (string, error)
}

// Renderer turns an assembled book into its final binary form (PDF).
type Renderer interface {
	Render(ctx context.Context, book *Book) ([]byte, error)
}

// SectionGroup is a run of pages that share a section.
type SectionGroup struct {
	Name     string
	Contents []*PageContent
}

// GroupBySection groups contents by section in first-seen order, keeping
// the input order within each group. Pages without a section fall into
// DefaultSection.
func GroupBySection(contents []*PageContent) []SectionGroup {
	var groups []SectionGroup
	index := make(map[string]int)
	for _, c := range contents {
		name := strings.TrimSpace(c.Section)
		if name == "" {
			name = DefaultSection
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, SectionGroup{Name: name})
		}
		groups[i].Contents = append(groups[i].Contents, c)
	}
	return groups
}

// FormatBook formats pages as one Markdown document, grouped by section.
// Every page ends with its source URL.
func FormatBook(site *DocSite, contents []*PageContent) string {
	if len(contents) == 0 {
		return ""
	}

	var b strings.Builder
	title := site.Title
	if title == "" {
		title = site.BaseURL
	}
	b.WriteString("# " + title + "\n\n")
	b.WriteString("Source: " + site.BaseURL + "\n")

	for _, group := range GroupBySection(contents) {
		b.WriteString("\n## " + group.Name + "\n")
		for _, c := range group.Contents {
			header := c.Title
			if header == "" {
				header = c.URL
			}
			b.WriteString("\n### " + header + "\n\n")
			b.WriteString(strings.TrimSpace(c.Markdown))
			b.WriteString("\n\nSource: " + c.URL + "\n")
		}
	}

	return b.String()
}
