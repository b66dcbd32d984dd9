package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/docpack"
)

// Ensure Converter implements docpack.Converter at compile time.
var _ docpack.Converter = (*Converter)(nil)

// nbspReplacer turns non-breaking spaces left by doc themes into plain
// spaces so that word counts and headings stay stable.
var nbspReplacer = strings.NewReplacer("\u00a0", " ", "&nbsp;", " ")

// permalinkRe matches the heading self-links doc themes append to titles,
// such as Docusaurus "[​](#install)" and Sphinx "[¶](#install)".
var permalinkRe = regexp.MustCompile(`[ \t]*\[(?:#|¶|\x{200B}|🔗)?\]\(#[^)\s]*(?:\s+"[^"]*")?\)`)

// Converter wraps html-to-markdown to convert extracted page content to
// GitHub-flavored Markdown (tables, strikethrough, fenced code blocks).
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
			strikethrough.NewStrikethroughPlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Heading permalinks are
// dropped and the result is trimmed; HTML without any text yields "".
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", docpack.Errorf(docpack.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", docpack.Errorf(docpack.EINTERNAL, "failed to convert HTML: %v", err)
	}

	result = permalinkRe.ReplaceAllString(nbspReplacer.Replace(result), "")
	return strings.TrimSpace(result), nil
}
