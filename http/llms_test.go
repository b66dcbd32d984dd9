package http_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/fwojciec/docpack"
	docpackhttp "github.com/fwojciec/docpack/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const llmsTxt = `# Acme Docs

> Acme is a toolkit for building things.

## Getting Started

- [Introduction]({{BASE}}/docs/intro.md): What Acme is
- [Installation](/docs/install.md)
- [Quick Start]({{BASE}}/docs/quick-start)

## Guides

- [Configuration]({{BASE}}/docs/guides/config.md): All options
- [Deployment]({{BASE}}/docs/guides/deploy.md)
- [Introduction again]({{BASE}}/docs/intro.md#top)

### Advanced

- [Tuning]({{BASE}}/docs/guides/advanced/tuning.md)
- [Plugins]({{BASE}}/docs/guides/advanced/plugins.md)
- [Upstream project](https://github.com/acme/acme)

## Optional

- [Changelog]({{BASE}}/changelog.md)
`

func TestLLMSTxtSource_Discover(t *testing.T) {
	t.Parallel()

	t.Run("returns pages without full content index", func(t *testing.T) {
		t.Parallel()

		// Given a site with llms.txt listing 8 pages and no llms-full.txt
		srv := newTestServer(t, map[string]string{"/llms.txt": llmsTxt})
		defer srv.Close()

		// When discovering from any page of the site
		site, err := docpackhttp.NewLLMSTxtSource(docpackhttp.NewFetcher()).Discover(context.Background(), srv.URL+"/docs/guides/config")

		// Then the site has exactly 8 pages and no full content index
		require.NoError(t, err)
		assert.Equal(t, docpack.SourceLLMSTxt, site.Source)
		assert.Equal(t, "Acme Docs", site.Title)
		assert.Equal(t, srv.URL, site.BaseURL)
		assert.Equal(t, docpack.FrameworkUnknown, site.Framework)
		assert.False(t, site.HasFullContentIndex)
		assert.Empty(t, site.FullContentURL)
		require.Len(t, site.Pages, 8)

		assert.Equal(t, srv.URL+"/docs/intro", site.Pages[0].URL)
		assert.Equal(t, "Introduction", site.Pages[0].Title)
		assert.Equal(t, "Getting Started", site.Pages[0].Section)
		assert.Equal(t, srv.URL+"/docs/install", site.Pages[1].URL)
		assert.Equal(t, "Guides", site.Pages[3].Section)
		assert.Equal(t, "Advanced", site.Pages[5].Section)
		assert.Equal(t, 1, site.Pages[5].Level)
		assert.Equal(t, srv.URL+"/changelog", site.Pages[7].URL)
	})

	t.Run("records the full content index", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/llms.txt":      llmsTxt,
			"/llms-full.txt": "# Introduction\n\nAcme is a toolkit.\n",
		})
		defer srv.Close()

		site, err := docpackhttp.NewLLMSTxtSource(docpackhttp.NewFetcher()).Discover(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.True(t, site.HasFullContentIndex)
		assert.Equal(t, srv.URL+"/llms-full.txt", site.FullContentURL)
	})

	t.Run("ignores an HTML full content file", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/llms.txt":      llmsTxt,
			"/llms-full.txt": "<!DOCTYPE html><html><body>Not found</body></html>",
		})
		defer srv.Close()

		site, err := docpackhttp.NewLLMSTxtSource(docpackhttp.NewFetcher()).Discover(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.False(t, site.HasFullContentIndex)
	})

	t.Run("rejects an index with too few pages", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/llms.txt": "# Tiny\n\n- [A]({{BASE}}/a.md)\n- [B]({{BASE}}/b.md)\n",
		})
		defer srv.Close()

		_, err := docpackhttp.NewLLMSTxtSource(docpackhttp.NewFetcher()).Discover(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, docpack.ENOTFOUND, docpack.ErrorCode(err))
	})

	t.Run("rejects an HTML page served as llms.txt", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/llms.txt": "<html><body>" + strings.Repeat("- [A](/a.md)\n", 10) + "</body></html>",
		})
		defer srv.Close()

		_, err := docpackhttp.NewLLMSTxtSource(docpackhttp.NewFetcher()).Discover(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, docpack.ENOTFOUND, docpack.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND when llms.txt is missing", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		_, err := docpackhttp.NewLLMSTxtSource(docpackhttp.NewFetcher()).Discover(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, docpack.ENOTFOUND, docpack.ErrorCode(err))
	})
}

func TestParseLLMSTxt(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://acme.dev")
	require.NoError(t, err)

	t.Run("skips links inside code fences", func(t *testing.T) {
		t.Parallel()

		body := "## Examples\n\n```md\n- [Fake](/fake.md)\n```\n\n- [Real](/real.md)\n"

		_, pages := docpackhttp.ParseLLMSTxt(body, base)

		require.Len(t, pages, 1)
		assert.Equal(t, "https://acme.dev/real", pages[0].URL)
	})

	t.Run("maps index.md to its directory", func(t *testing.T) {
		t.Parallel()

		_, pages := docpackhttp.ParseLLMSTxt("- [Guide](/guide/index.md)\n* [API](<https://acme.dev/api.md>)\n", base)

		require.Len(t, pages, 2)
		assert.Equal(t, "https://acme.dev/guide/", pages[0].URL)
		assert.Equal(t, "https://acme.dev/api", pages[1].URL)
	})

	t.Run("derives a title from the path when the link text is empty", func(t *testing.T) {
		t.Parallel()

		_, pages := docpackhttp.ParseLLMSTxt("- [](/docs/getting-started.md)\n", base)

		require.Len(t, pages, 1)
		assert.Equal(t, "Getting Started", pages[0].Title)
	})
}
