package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/docpack"
	"github.com/fwojciec/docpack/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "headings",
			html: `<h1>Title</h1><h2>Subtitle</h2><h3>Section</h3>`,
			want: []string{"# Title", "## Subtitle", "### Section"},
		},
		{
			name: "links keep absolute targets",
			html: `<p>See <a href="https://acme.dev/docs/api">the API</a>.</p>`,
			want: []string{"[the API](https://acme.dev/docs/api)"},
		},
		{
			name: "lists",
			html: `<ul><li>First</li><li>Second</li></ul><ol><li>One</li><li>Two</li></ol>`,
			want: []string{"- First", "- Second", "1. One", "2. Two"},
		},
		{
			name: "fenced code with language",
			html: `<pre><code class="language-go">package main</code></pre>`,
			want: []string{"```go", "package main"},
		},
		{
			name: "inline code and emphasis",
			html: `<p>Run <code>docpack export</code> with <strong>care</strong> and <em>patience</em>.</p>`,
			want: []string{"`docpack export`", "**care**", "*patience*"},
		},
		{
			name: "tables",
			html: `<table><thead><tr><th>Flag</th><th>Default</th></tr></thead><tbody><tr><td>limit</td><td>0</td></tr></tbody></table>`,
			want: []string{"Flag", "Default", "limit", "|", "---"},
		},
		{
			name: "strikethrough",
			html: `<p><del>deprecated</del> use v2</p>`,
			want: []string{"~~deprecated~~"},
		},
		{
			name: "blockquotes",
			html: `<blockquote><p><strong>Note:</strong> read first.</p></blockquote>`,
			want: []string{"> **Note:** read first."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md, err := htmltomarkdown.NewConverter().Convert(tt.html)

			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, md, want)
			}
		})
	}
}

func TestConverter_Convert_Output(t *testing.T) {
	t.Parallel()

	t.Run("trims and replaces non-breaking spaces", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("\n<p>Step&nbsp;1</p>\n\n")

		require.NoError(t, err)
		assert.Equal(t, "Step 1", md)
	})

	t.Run("drops heading permalinks", func(t *testing.T) {
		t.Parallel()

		// Given headings with Docusaurus and Sphinx style self-links
		html := `<h2>Install<a class="hash-link" href="#install" title="Direct link to Install">​</a></h2>` +
			`<h3>Usage<a class="headerlink" href="#usage">¶</a></h3>` +
			`<p>See <a href="#usage">usage</a>.</p>`

		// When converting
		md, err := htmltomarkdown.NewConverter().Convert(html)

		// Then the self-links are gone but in-page prose links stay
		require.NoError(t, err)
		assert.Contains(t, md, "## Install\n")
		assert.Contains(t, md, "### Usage\n")
		assert.NotContains(t, md, "¶")
		assert.Contains(t, md, "[usage](#usage)")
	})

	t.Run("returns EINVALID for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("  \n")

		require.Error(t, err)
		assert.Equal(t, docpack.EINVALID, docpack.ErrorCode(err))
	})

	t.Run("returns empty Markdown for markup without text", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<div><span></span></div>`)

		require.NoError(t, err)
		assert.Empty(t, md)
	})
}
