package docpack

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Section is one heading of a page.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

var atxHeadingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)(?:\s+#+)?\s*$`)

// ExtractSections returns the ATX headings of markdown in order, skipping
// fenced code. Anchors are slugs of the title; repeated slugs get "-1",
// "-2" suffixes.
func ExtractSections(markdown string) []Section {
	var (
		sections []Section
		seen     = make(map[string]int)
		inFence  bool
	)
	for _, line := range strings.Split(markdown, "\n") {
		if fenceRe.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := atxHeadingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[2])
		slug := slugify(title)
		anchor := slug
		if n := seen[slug]; n > 0 {
			anchor = slug + "-" + strconv.Itoa(n)
		}
		seen[slug]++
		sections = append(sections, Section{Level: len(m[1]), Title: title, Anchor: anchor})
	}
	return sections
}

// slugify lowercases title, keeps letters and digits and joins words
// with single hyphens.
func slugify(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
	kept := words[:0]
	for _, w := range words {
		w = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, w)
		if w != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, "-")
}

// ContentChunk is one page-sized piece of a concatenated document.
type ContentChunk struct {
	Title    string
	URL      string
	Markdown string
}

var (
	fenceRe     = regexp.MustCompile("^\\s*(```|~~~)")
	chunkURLRe  = regexp.MustCompile(`(?i)^\s*(?:source|url):\s*(https?://\S+)\s*$`)
	chunkURLMax = 5
)

// SplitByHeadings splits markdown at headings of exactly the given level,
// ignoring headings inside fenced code blocks. Text before the first
// heading becomes an untitled chunk when it is not blank. A "Source:" or
// "URL:" line near the top of a chunk sets its URL.
func SplitByHeadings(markdown string, level int) []ContentChunk {
	if markdown == "" || level < 1 || level > 6 {
		return nil
	}
	headingRe := regexp.MustCompile(`^#{` + strconv.Itoa(level) + `}\s+(.+?)\s*#*\s*$`)

	var (
		chunks  []ContentChunk
		current *ContentChunk
		body    []string
		inFence bool
	)
	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if current == nil && text == "" {
			return
		}
		c := ContentChunk{Markdown: text}
		if current != nil {
			c.Title = current.Title
			c.Markdown = strings.TrimSpace(strings.Join(append([]string{strings.Repeat("#", level) + " " + current.Title}, body...), "\n"))
		}
		c.URL = chunkURL(body)
		chunks = append(chunks, c)
	}

	for _, line := range strings.Split(markdown, "\n") {
		if fenceRe.MatchString(line) {
			inFence = !inFence
		}
		if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				flush()
				current = &ContentChunk{Title: strings.TrimSpace(m[1])}
				body = nil
				continue
			}
		}
		body = append(body, line)
	}
	flush()

	return chunks
}

// chunkURL looks for a source URL line among the first non-blank lines.
func chunkURL(lines []string) string {
	seen := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := chunkURLRe.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		seen++
		if seen >= chunkURLMax {
			break
		}
	}
	return ""
}

// FirstHeading returns the title of the first heading in markdown, or "".
func FirstHeading(markdown string) string {
	sections := ExtractSections(markdown)
	if len(sections) == 0 {
		return ""
	}
	return sections[0].Title
}
