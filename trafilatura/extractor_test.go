package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/docpack"
	"github.com/fwojciec/docpack/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ docpack.Extractor = (*trafilatura.Extractor)(nil)

const testPageURL = "https://docs.example.com/guide/intro"

// docPage lays out a documentation page the way static site themes do:
// header navigation, a sidebar, the article and a footer.
func docPage(title, sidebar, article, footer string) string {
	return `<!DOCTYPE html>
<html>
<head><title>` + title + `</title></head>
<body>
<header><nav class="navbar"><a href="/">Acme</a> <a href="/docs">Docs</a> <a href="/blog">Blog</a></nav></header>
<div class="sidebar">` + sidebar + `</div>
<main>` + article + `</main>
<footer>` + footer + `</footer>
</body>
</html>`
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		want    []string
		notWant []string
	}{
		{
			name: "Docusaurus layout",
			html: docPage("Introduction | Acme",
				`<ul class="menu"><li><a href="/docs/intro">Introduction</a></li><li><a href="/docs/install">Installation</a></li></ul>`,
				`<article><h1>Introduction</h1><p>Welcome to the Acme documentation. This guide walks you through your first deployment.</p>`+
					`<h2>Prerequisites</h2><p>Before you begin, make sure a recent Node.js release is installed on your machine.</p></article>`,
				`<p>Built with Docusaurus</p>`),
			want: []string{"Welcome to the Acme documentation", "Prerequisites"},
		},
		{
			name: "MkDocs Material layout",
			html: docPage("Home - Acme",
				`<nav class="md-nav" data-md-level="0"><ul><li><a href=".">Home</a></li><li><a href="getting-started/">Getting Started</a></li></ul></nav>`,
				`<article class="md-content"><h1>Welcome to Acme</h1><p>For the full reference visit the API section of this site.</p>`+
					`<h2>Commands</h2><ul><li><code>acme new [dir]</code> creates a new project.</li><li><code>acme serve</code> starts the live-reloading server.</li></ul></article>`,
				`<p>Made with Material for MkDocs</p>`),
			want: []string{"Welcome to Acme", "acme new"},
		},
		{
			name: "navigation and footer dropped",
			html: docPage("Test",
				`<ul><li><a href="/">Home</a></li><li><a href="/about">About</a></li></ul>`,
				`<article><h1>Configuration</h1><p>Every option lives in acme.yaml, which is read once when the service starts.</p></article>`,
				`<p>Copyright 2024 Acme Corp</p><nav>Privacy | Terms | Contact</nav>`),
			want:    []string{"read once when the service starts"},
			notWant: []string{"navbar", "Copyright 2024 Acme Corp"},
		},
		{
			name: "code blocks kept",
			html: docPage("Code Example", "",
				"<article><h1>Quick start</h1><p>Create a file with the following program:</p>"+
					"<pre><code class=\"language-go\">package main\n\nimport \"fmt\"\n\nfunc main() {\n    fmt.Println(\"Hello, World!\")\n}\n</code></pre>"+
					"<p>Then start it with <code>go run main.go</code> from the same directory.</p></article>", ""),
			// html.Render encodes the quotes as &#34;
			want: []string{"fmt.Println", "Hello, World!"},
		},
		{
			name: "links kept",
			html: docPage("Links", "",
				`<article><h1>Configuration</h1><p>The configuration file controls every option. See <a href="https://docs.example.com/guide/reference">the reference</a> for the full list of keys and their default values.</p>`+
					`<p>Options are read once at startup and changes require a restart of the service to take effect.</p></article>`, ""),
			want: []string{"the reference", "<a"},
		},
		{
			name: "bare body",
			html: `<html><body><p>Simple content</p></body></html>`,
			want: []string{"Simple content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := trafilatura.NewExtractor().Extract(tt.html, testPageURL)

			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, result.ContentHTML, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, result.ContentHTML, w)
			}
		})
	}
}

func TestExtractor_Extract_Title(t *testing.T) {
	t.Parallel()

	t.Run("reads metadata", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Getting Started - Acme Docs</title>
<meta property="og:title" content="Getting Started Guide">
</head>
<body><main><h1>Getting Started</h1><p>This is the main content of the documentation page.</p></main></body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html, testPageURL)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
	})

	t.Run("falls back to the first heading", func(t *testing.T) {
		t.Parallel()

		// Given a page without a title element or meta tags
		html := `<!DOCTYPE html>
<html>
<body>
<article>
<h1>Deploying   <code>workers</code></h1>
<p>Workers are deployed from the command line with a single command that uploads the bundle.</p>
<p>Each deploy creates a new version that can be rolled back from the dashboard at any time.</p>
</article>
</body>
</html>`

		// When extracting
		result, err := trafilatura.NewExtractor().Extract(html, testPageURL)

		// Then the title is the heading text
		require.NoError(t, err)
		assert.Contains(t, result.Title, "Deploying")
	})
}

func TestExtractor_Extract_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := trafilatura.NewExtractor().Extract("", testPageURL)

	require.Error(t, err)
	assert.Equal(t, docpack.EINVALID, docpack.ErrorCode(err))
}
