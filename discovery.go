package docpack

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Discovery source names recorded in DocSite.Source.
const (
	SourceLLMSTxt = "llms.txt"
	SourceSitemap = "sitemap"
	SourceCatalog = "catalog"
	SourceSidebar = "sidebar"
)

var htmlPrefixes = []string{"<!doctype", "<html", "<head", "<body"}

// LooksLikeHTML reports whether body starts like an HTML document. Servers
// that answer every path with a 200 error page are caught this way.
func LooksLikeHTML(body string) bool {
	head := strings.TrimLeft(strings.TrimPrefix(body, "\ufeff"), " \t\r\n")
	if len(head) > 64 {
		head = head[:64]
	}
	head = strings.ToLower(head)
	for _, p := range htmlPrefixes {
		if strings.HasPrefix(head, p) {
			return true
		}
	}
	return false
}

// SourceDir returns the directory that pageURL lives in, with a trailing
// slash: "/docs/guide/intro" gives "/docs/guide/". The root yields "/".
func SourceDir(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	if strings.HasSuffix(u.Path, "/") {
		return u.Path
	}
	dir := path.Dir(u.Path)
	if dir == "/" || dir == "." {
		return "/"
	}
	return dir + "/"
}

// HasPathPrefix checks if a URL's path starts with the given prefix,
// respecting path boundaries: /docs matches /docs/ and /docs/intro but not
// /documentation.
func HasPathPrefix(rawURL, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if prefix == "" || prefix == "/" {
		return true
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(parsed.Path+"/", prefix)
}

// FilterPathPrefix narrows urls to those under the directory of pageURL.
// The filter is skipped when it would leave fewer than
// t.PathFilterMinPages pages out of more than t.PathFilterMaxUnfiltered.
func FilterPathPrefix(urls []string, pageURL string, t Thresholds) []string {
	dir := SourceDir(pageURL)
	if dir == "/" {
		return urls
	}

	var filtered []string
	for _, u := range urls {
		if HasPathPrefix(u, dir) {
			filtered = append(filtered, u)
		}
	}
	if len(filtered) < t.PathFilterMinPages && len(urls) > t.PathFilterMaxUnfiltered {
		return urls
	}
	return filtered
}

var languageSegmentRe = regexp.MustCompile(`(?i)/(?:docs|guide|guides|api)/([a-z]{2}(?:[-_][a-z]{2,4})?)(?:/|$)`)

// languageCodes are the ISO 639-1 codes recognised in URL paths. Keeping
// the list closed avoids treating segments like "go" or "js" as languages.
var languageCodes = map[string]bool{
	"ar": true, "bg": true, "bn": true, "cs": true, "da": true, "de": true,
	"el": true, "en": true, "es": true, "fa": true, "fi": true, "fr": true,
	"he": true, "hi": true, "hu": true, "id": true, "it": true, "ja": true,
	"ko": true, "ms": true, "nb": true, "nl": true, "no": true, "pl": true,
	"pt": true, "ro": true, "ru": true, "sk": true, "sv": true, "th": true,
	"tr": true, "uk": true, "vi": true, "zh": true,
}

// URLLanguage returns the language code found in a /docs/{lang}/,
// /guide/{lang}/ or /api/{lang}/ path, or "" when there is none. Region
// suffixes are dropped: "zh-cn" gives "zh".
func URLLanguage(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	m := languageSegmentRe.FindStringSubmatch(u.Path)
	if m == nil {
		return ""
	}
	code := strings.ToLower(m[1])
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	if !languageCodes[code] {
		return ""
	}
	return code
}

// FilterLanguage keeps English and language-neutral pages when urls span
// at least two languages and one of them is English. Otherwise urls are
// returned unchanged.
func FilterLanguage(urls []string) []string {
	langs := make(map[string]bool)
	for _, u := range urls {
		if lang := URLLanguage(u); lang != "" {
			langs[lang] = true
		}
	}
	if len(langs) < 2 || !langs["en"] {
		return urls
	}

	var filtered []string
	for _, u := range urls {
		if lang := URLLanguage(u); lang == "" || lang == "en" {
			filtered = append(filtered, u)
		}
	}
	return filtered
}
