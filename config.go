package docpack

import "time"

// MaxLevel is the deepest navigation level recorded for a DocPage.
const MaxLevel = 3

// DefaultConcurrency is the number of pages fetched per batch.
const DefaultConcurrency = 5

// Thresholds holds the heuristic limits used by discovery, fetching and
// the quality gate. Zero values are not meaningful; start from
// DefaultThresholds and override individual fields.
type Thresholds struct {
	// MinIndexPages is the fewest llms.txt entries accepted as a real index.
	MinIndexPages int `yaml:"min_index_pages"`

	// MinSitemapPages is the fewest sitemap pages accepted after filtering.
	MinSitemapPages int `yaml:"min_sitemap_pages"`

	// PathFilterMinPages and PathFilterMaxUnfiltered guard the path-prefix
	// filter: when filtering leaves fewer than PathFilterMinPages pages while
	// the unfiltered set has more than PathFilterMaxUnfiltered, the filter is
	// skipped.
	PathFilterMinPages      int `yaml:"path_filter_min_pages"`
	PathFilterMaxUnfiltered int `yaml:"path_filter_max_unfiltered"`

	// MinGenericLinks is the number of links the generic sidebar fallback
	// must exceed to be accepted.
	MinGenericLinks int `yaml:"min_generic_links"`

	// MinMarkdownChars is the shortest body accepted from a .md copy.
	MinMarkdownChars int `yaml:"min_markdown_chars"`

	// MinContentChars is the quality gate's minimum content length.
	MinContentChars int `yaml:"min_content_chars"`

	// MinPageChars is the shortest page kept by the batch fetcher.
	MinPageChars int `yaml:"min_page_chars"`

	// PhraseCheckMaxChars limits block-phrase matching to short content.
	PhraseCheckMaxChars int `yaml:"phrase_check_max_chars"`

	// LargeHTMLBytes and MinWordsLargeHTML drive the content-to-markup check.
	LargeHTMLBytes    int `yaml:"large_html_bytes"`
	MinWordsLargeHTML int `yaml:"min_words_large_html"`
}

// DefaultThresholds returns the thresholds used when nothing is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinIndexPages:           5,
		MinSitemapPages:         5,
		PathFilterMinPages:      3,
		PathFilterMaxUnfiltered: 10,
		MinGenericLinks:         5,
		MinMarkdownChars:        50,
		MinContentChars:         50,
		MinPageChars:            50,
		PhraseCheckMaxChars:     3000,
		LargeHTMLBytes:          100_000,
		MinWordsLargeHTML:       50,
	}
}

// Timeouts bounds every network operation by source.
type Timeouts struct {
	IndexFile   time.Duration `yaml:"index_file"`
	FullContent time.Duration `yaml:"full_content"`
	Sitemap     time.Duration `yaml:"sitemap"`
	Catalog     time.Duration `yaml:"catalog"`
	Sidebar     time.Duration `yaml:"sidebar"`
	Markdown    time.Duration `yaml:"markdown"`
	HTML        time.Duration `yaml:"html"`
}

// DefaultTimeouts returns the per-source timeouts used when nothing is
// configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		IndexFile:   10 * time.Second,
		FullContent: 15 * time.Second,
		Sitemap:     10 * time.Second,
		Catalog:     10 * time.Second,
		Sidebar:     15 * time.Second,
		Markdown:    5 * time.Second,
		HTML:        15 * time.Second,
	}
}
