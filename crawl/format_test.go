package crawl_test

import (
	"testing"

	"github.com/fwojciec/docpack/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	const long = "https://docs.example.com/guide/configuration/advanced"

	tests := []struct {
		name   string
		url    string
		maxLen int
		want   string
	}{
		{"drops the scheme", "https://x.dev/intro", 50, "x.dev/intro"},
		{"fits exactly", "http://x.dev", 5, "x.dev"},
		{"keeps the end of long URLs", long, 20, "...guration/advanced"},
		{"no room", long, 0, ""},
		{"negative room", long, -1, ""},
		{"no room for an ellipsis", long, 3, "doc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := crawl.TruncateURL(tt.url, tt.maxLen)

			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), max(tt.maxLen, 0))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0 B", crawl.FormatBytes(0))
	assert.Equal(t, "1023 B", crawl.FormatBytes(1023))
	assert.Equal(t, "1.5 KB", crawl.FormatBytes(1536))
	assert.Equal(t, "2.0 MB", crawl.FormatBytes(2<<20))
	assert.Equal(t, "3.0 GB", crawl.FormatBytes(3<<30))
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "~999 tokens", crawl.FormatTokens(999))
	assert.Equal(t, "~2k tokens", crawl.FormatTokens(1500))
	assert.Equal(t, "~120k tokens", crawl.FormatTokens(119_600))
}

func TestComputeHash(t *testing.T) {
	t.Parallel()

	a := crawl.ComputeHash("https://docs.example.com/intro")

	assert.Equal(t, a, crawl.ComputeHash("https://docs.example.com/intro"))
	assert.NotEqual(t, a, crawl.ComputeHash("https://docs.example.com/install"))
	assert.Regexp(t, `^[0-9a-f]{16}$`, a)
}
