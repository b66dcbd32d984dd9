package goquery_test

import (
	"testing"

	"github.com/fwojciec/docpack"
	"github.com/fwojciec/docpack/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want docpack.Framework
	}{
		{
			name: "Docusaurus from skip-to-content fallback",
			html: `<html><body><div id="__docusaurus"><a id="__docusaurus_skipToContent_fallback" href="#">Skip</a></div></body></html>`,
			want: docpack.FrameworkDocusaurus,
		},
		{
			name: "Docusaurus from generator meta",
			html: `<html><head><meta name="generator" content="Docusaurus v3.1.0"></head><body></body></html>`,
			want: docpack.FrameworkDocusaurus,
		},
		{
			name: "VitePress from VPContent",
			html: `<html><body><div id="app"><div id="VPContent"></div></div></body></html>`,
			want: docpack.FrameworkVitePress,
		},
		{
			name: "VuePress from sidebar-links",
			html: `<html><body><aside class="sidebar"><ul class="sidebar-links"></ul></aside></body></html>`,
			want: docpack.FrameworkVuePress,
		},
		{
			name: "MkDocs from data-md-color-scheme",
			html: `<html><body data-md-color-scheme="default"><nav class="md-nav md-nav--primary"></nav></body></html>`,
			want: docpack.FrameworkMkDocs,
		},
		{
			name: "Sphinx from sphinxsidebar",
			html: `<html><body><div class="sphinxsidebar"></div></body></html>`,
			want: docpack.FrameworkSphinx,
		},
		{
			name: "Read the Docs from Sphinx generator with RTD menu",
			html: `<html><head><meta name="generator" content="Docutils 0.18.1: http://docutils.sourceforge.net/ Sphinx"></head><body><div class="wy-menu-vertical"></div></body></html>`,
			want: docpack.FrameworkReadTheDocs,
		},
		{
			name: "GitBook from space sidebar",
			html: `<html><body><aside data-testid="space.sidebar"></aside></body></html>`,
			want: docpack.FrameworkGitBook,
		},
		{
			name: "GitBook from html classes",
			html: `<html class="circular-corners theme-clean tint"><body></body></html>`,
			want: docpack.FrameworkGitBook,
		},
		{
			name: "Nextra from sidebar container",
			html: `<html><body><aside class="nextra-sidebar-container"></aside></body></html>`,
			want: docpack.FrameworkNextra,
		},
		{
			name: "Mintlify from navigation items",
			html: `<html><body><div id="sidebar"><div id="navigation-items"></div></div></body></html>`,
			want: docpack.FrameworkMintlify,
		},
		{
			name: "Docsify from global variable",
			html: `<html><body><div id="app"></div><script>window.$docsify = { name: 'docs' }</script></body></html>`,
			want: docpack.FrameworkDocsify,
		},
		{
			name: "Starlight from generator meta",
			html: `<html><head><meta name="generator" content="Astro v4.5.0"><meta name="generator" content="Starlight v0.21.1"></head><body></body></html>`,
			want: docpack.FrameworkStarlight,
		},
		{
			name: "mdBook from path_to_root global",
			html: `<html><body><script>var path_to_root = "";</script></body></html>`,
			want: docpack.FrameworkMdBook,
		},
		{
			name: "ReadMe from sidebar class",
			html: `<html><body><nav class="rm-Sidebar"></nav></body></html>`,
			want: docpack.FrameworkReadme,
		},
		{
			name: "Antora from generator meta",
			html: `<html><head><meta name="generator" content="Antora 3.1.7"></head><body></body></html>`,
			want: docpack.FrameworkAntora,
		},
		{
			name: "unknown for plain page",
			html: `<html><head><title>Blog</title></head><body><p>Hello</p></body></html>`,
			want: docpack.FrameworkUnknown,
		},
		{
			name: "unknown for empty input",
			html: ``,
			want: docpack.FrameworkUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := goquery.NewDetector()

			assert.Equal(t, tt.want, d.Detect(tt.html))
		})
	}
}

func TestDetector_Precedence(t *testing.T) {
	t.Parallel()

	t.Run("generator meta wins over structural classes", func(t *testing.T) {
		t.Parallel()

		// Given a MkDocs generator tag on a page that also has VuePress classes
		html := `<html><head><meta name="generator" content="mkdocs-1.5.3, mkdocs-material-9.5.0"></head>
<body><div class="theme-default-content"></div></body></html>`

		// When detecting
		got := goquery.NewDetector().Detect(html)

		// Then the generator decides
		assert.Equal(t, docpack.FrameworkMkDocs, got)
	})

	t.Run("structural classes win over global variables", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="VPDoc"></div><script>window.$docsify = {}</script></body></html>`

		got := goquery.NewDetector().Detect(html)

		assert.Equal(t, docpack.FrameworkVitePress, got)
	})

	t.Run("script src is not searched for globals", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><script src="/js/docsify.min.js?$docsify"></script></body></html>`

		got := goquery.NewDetector().Detect(html)

		assert.Equal(t, docpack.FrameworkUnknown, got)
	})
}

func TestDetector_RequiresJS(t *testing.T) {
	t.Parallel()

	d := goquery.NewDetector()

	requires, known := d.RequiresJS(docpack.FrameworkGitBook)
	assert.True(t, requires)
	assert.True(t, known)

	requires, known = d.RequiresJS(docpack.FrameworkSphinx)
	assert.False(t, requires)
	assert.True(t, known)

	requires, known = d.RequiresJS(docpack.FrameworkUnknown)
	assert.False(t, requires)
	assert.False(t, known)
}
