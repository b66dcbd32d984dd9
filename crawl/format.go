package crawl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash returns the 16-digit hex xxhash of content.
func ComputeHash(content string) string {
	h := strconv.FormatUint(xxhash.Sum64String(content), 16)
	return strings.Repeat("0", 16-len(h)) + h
}

// cacheKey namespaces a hashed key so bodies and discovery results of the
// same URL never collide.
func cacheKey(kind, s string) string {
	return kind + ":" + ComputeHash(s)
}

// TruncateURL shortens a URL for progress lines. The scheme is dropped and
// long URLs keep their end, which names the page.
func TruncateURL(rawURL string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	s := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	switch {
	case len(s) <= maxLen:
		return s
	case maxLen < 4:
		return s[:maxLen]
	}
	return "..." + s[len(s)-maxLen+3:]
}

var byteUnits = []string{"KB", "MB", "GB"}

// FormatBytes formats an output size: "512 B", "1.5 KB", "2.0 MB".
func FormatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	size := float64(n) / 1024
	unit := 0
	for size >= 1024 && unit < len(byteUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", size, byteUnits[unit])
}

// FormatTokens formats a token estimate, rounding to thousands above 999.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}
