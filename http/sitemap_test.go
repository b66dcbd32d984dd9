package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/fwojciec/docpack"
	docpackhttp "github.com/fwojciec/docpack/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapSource_Discover_URLSet(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": urlset("/docs/intro", "/docs/install", "/docs/guides/config", "/docs/guides/deploy", "/docs/api/client", "/docs/api/server"),
	})
	defer srv.Close()

	site, err := newSitemapSource().Discover(context.Background(), srv.URL+"/")

	require.NoError(t, err)
	assert.Equal(t, docpack.SourceSitemap, site.Source)
	assert.Equal(t, srv.URL, site.BaseURL)
	require.Len(t, site.Pages, 6)
	assert.Equal(t, srv.URL+"/docs/intro", site.Pages[0].URL)
	assert.Equal(t, "Intro", site.Pages[0].Title)
	assert.Equal(t, "Docs", site.Pages[0].Section)
	assert.Equal(t, 1, site.Pages[0].Level)
	assert.Equal(t, "Guides", site.Pages[2].Section)
	assert.Equal(t, 2, site.Pages[2].Level)
}

func TestSitemapSource_Discover_FromRobotsTxt(t *testing.T) {
	t.Parallel()

	robotsTxt := `User-agent: *
Disallow: /private/
Sitemap: {{BASE}}/custom-sitemap.xml
`
	srv := newTestServer(t, map[string]string{
		"/robots.txt":         robotsTxt,
		"/custom-sitemap.xml": urlset("/a", "/b", "/c", "/d", "/e"),
	})
	defer srv.Close()

	site, err := newSitemapSource().Discover(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Len(t, site.Pages, 5)
}

func TestSitemapSource_Discover_SitemapIndex(t *testing.T) {
	t.Parallel()

	// Given a sitemap index with two children of 5 and 7 pages
	sitemapIndex := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-docs.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-api.xml</loc></sitemap>
</sitemapindex>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml":      sitemapIndex,
		"/sitemap-docs.xml": urlset(numbered("/docs/page-%d", 5)...),
		"/sitemap-api.xml": strings.Replace(urlset(numbered("/api/ref-%d", 7)...), "</urlset>",
			"<url><loc>https://elsewhere.example.com/api/x</loc></url></urlset>", 1),
	})
	defer srv.Close()

	// When discovering
	site, err := newSitemapSource().Discover(context.Background(), srv.URL)

	// Then both children are joined in index order, cross-origin dropped
	require.NoError(t, err)
	require.Len(t, site.Pages, 12)
	assert.Equal(t, srv.URL+"/docs/page-1", site.Pages[0].URL)
	assert.Equal(t, srv.URL+"/api/ref-7", site.Pages[11].URL)
}

func TestSitemapSource_Discover_PlainText(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 1; i <= 15; i++ {
		lines = append(lines, fmt.Sprintf("{{BASE}}/docs/topic-%d", i))
	}
	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": strings.Join(lines, "\n") + "\n",
	})
	defer srv.Close()

	site, err := newSitemapSource().Discover(context.Background(), srv.URL+"/docs/topic-1")

	require.NoError(t, err)
	require.Len(t, site.Pages, 15)
	assert.Equal(t, "Topic 1", site.Pages[0].Title)
	assert.Equal(t, "Topic 15", site.Pages[14].Title)
}

func TestSitemapSource_Discover_LanguageFilter(t *testing.T) {
	t.Parallel()

	// Given 40 pages split between English and French
	paths := append(numbered("/docs/en/page-%d", 20), numbered("/docs/fr/page-%d", 20)...)
	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": urlset(paths...),
	})
	defer srv.Close()

	// When discovering from the site root
	site, err := newSitemapSource().Discover(context.Background(), srv.URL+"/")

	// Then only the English pages remain
	require.NoError(t, err)
	require.Len(t, site.Pages, 20)
	for _, p := range site.Pages {
		assert.Contains(t, p.URL, "/docs/en/")
	}
}

func TestSitemapSource_Discover_PathScopedSitemap(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/docs/sitemap.xml": urlset(numbered("/docs/page-%d", 6)...),
		"/sitemap.xml":      urlset(numbered("/blog/post-%d", 30)...),
	})
	defer srv.Close()

	site, err := newSitemapSource().Discover(context.Background(), srv.URL+"/docs/page-1")

	require.NoError(t, err)
	require.Len(t, site.Pages, 6)
	assert.Contains(t, site.Pages[0].URL, "/docs/")
}

func TestSitemapSource_Discover_PathPrefixFilter(t *testing.T) {
	t.Parallel()

	t.Run("narrows to the source directory", func(t *testing.T) {
		t.Parallel()

		paths := append(numbered("/docs/guide/step-%d", 6), numbered("/blog/post-%d", 6)...)
		srv := newTestServer(t, map[string]string{"/sitemap.xml": urlset(paths...)})
		defer srv.Close()

		site, err := newSitemapSource().Discover(context.Background(), srv.URL+"/docs/guide/step-1")

		require.NoError(t, err)
		assert.Len(t, site.Pages, 6)
		assert.Equal(t, 0, site.Pages[0].Level)
	})

	t.Run("keeps everything when narrowing leaves too few pages", func(t *testing.T) {
		t.Parallel()

		paths := append(numbered("/docs/guide/step-%d", 2), numbered("/docs/ref/item-%d", 10)...)
		srv := newTestServer(t, map[string]string{"/sitemap.xml": urlset(paths...)})
		defer srv.Close()

		site, err := newSitemapSource().Discover(context.Background(), srv.URL+"/docs/guide/step-1")

		require.NoError(t, err)
		assert.Len(t, site.Pages, 12)
	})
}

func TestSitemapSource_Discover_Errors(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND when too few pages", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{"/sitemap.xml": urlset("/a", "/b", "/c", "/d")})
		defer srv.Close()

		_, err := newSitemapSource().Discover(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, docpack.ENOTFOUND, docpack.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND when no sitemap exists", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		_, err := newSitemapSource().Discover(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, docpack.ENOTFOUND, docpack.ErrorCode(err))
	})

	t.Run("skips HTML error pages served as sitemap", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml":   "<!DOCTYPE html><html><body>Not here</body></html>",
			"/sitemap-0.xml": urlset(numbered("/p-%d", 5)...),
		})
		defer srv.Close()

		site, err := newSitemapSource().Discover(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Len(t, site.Pages, 5)
	})
}

func TestParseSitemap(t *testing.T) {
	t.Parallel()

	t.Run("returns children of a sitemap index", func(t *testing.T) {
		t.Parallel()

		urls, children, err := docpackhttp.ParseSitemap(`<sitemapindex><sitemap><loc> https://a.dev/s1.xml </loc></sitemap><sitemap><loc>https://a.dev/s2.xml</loc></sitemap></sitemapindex>`)

		require.NoError(t, err)
		assert.Empty(t, urls)
		assert.Equal(t, []string{"https://a.dev/s1.xml", "https://a.dev/s2.xml"}, children)
	})

	t.Run("ignores non-URL lines in plain text", func(t *testing.T) {
		t.Parallel()

		urls, _, err := docpackhttp.ParseSitemap("# comment\nhttps://a.dev/x\n\nftp://a.dev/y\n/relative\nhttps://a.dev/z\n")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.dev/x", "https://a.dev/z"}, urls)
	})

	t.Run("rejects malformed XML", func(t *testing.T) {
		t.Parallel()

		_, _, err := docpackhttp.ParseSitemap(`<urlset><url><loc>https://a.dev/x</loc></urlset>`)

		require.Error(t, err)
		assert.Equal(t, docpack.EINVALID, docpack.ErrorCode(err))
	})
}

func newSitemapSource() *docpackhttp.SitemapSource {
	return docpackhttp.NewSitemapSource(docpackhttp.NewFetcher())
}

func urlset(paths ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
	for _, p := range paths {
		b.WriteString("  <url><loc>{{BASE}}" + p + "</loc></url>\n")
	}
	b.WriteString("</urlset>")
	return b.String()
}

func numbered(format string, n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf(format, i))
	}
	return out
}

func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		// Replace {{BASE}} with actual server URL
		body = replaceBaseURL(body, srv.URL)

		switch {
		case strings.HasSuffix(r.URL.Path, ".xml"):
			w.Header().Set("Content-Type", "application/xml")
		case strings.HasSuffix(r.URL.Path, ".txt"), strings.HasSuffix(r.URL.Path, ".md"):
			w.Header().Set("Content-Type", "text/plain")
		default:
			w.Header().Set("Content-Type", "text/html")
		}
		_, _ = w.Write([]byte(body))
	}))

	return srv
}

func replaceBaseURL(content, baseURL string) string {
	return regexp.MustCompile(`\{\{BASE\}\}`).ReplaceAllString(content, baseURL)
}
