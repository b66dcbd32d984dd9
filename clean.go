package docpack

import (
	"regexp"
	"strings"
)

// calloutTags are MDX callout components rewritten as blockquotes.
var calloutTags = []string{"Note", "Tip", "Info", "Warning", "Danger", "Caution", "Check", "Important", "Callout"}

// headingTags are components whose title attribute becomes a heading.
var headingTags = map[string]string{
	"Step":       "###",
	"Tab":        "####",
	"Accordion":  "####",
	"Expandable": "####",
	"Update":     "###",
}

var (
	calloutRes = func() map[string]*regexp.Regexp {
		m := make(map[string]*regexp.Regexp, len(calloutTags))
		for _, tag := range calloutTags {
			m[tag] = regexp.MustCompile(`(?s)<` + tag + `(?:\s[^>]*)?>(.*?)</` + tag + `>`)
		}
		return m
	}()
	strayCalloutRe = regexp.MustCompile(`</?(` + strings.Join(calloutTags, "|") + `)(?:\s[^>]*)?>`)
	admonitionRe   = regexp.MustCompile(`(?ms)^:::(note|tip|info|warning|danger|caution|important)[^\n]*\n(.*?)^:::[ \t]*$`)
	titledOpenRe   = regexp.MustCompile(`<(Step|Tab|Accordion|Expandable|Update)\b([^>]*?)/?>`)
	titledCloseRe  = regexp.MustCompile(`</(Step|Tab|Accordion|Expandable|Update)>`)
	cardRe         = regexp.MustCompile(`<Card\b([^>]*?)/?>`)
	fieldRe        = regexp.MustCompile(`<(ParamField|ResponseField|Property)\b([^>]*?)/?>`)
	wrapperRe      = regexp.MustCompile(`</?(Steps|Tabs|AccordionGroup|CardGroup|Columns|Frame|CodeGroup|RequestExample|ResponseExample|Card|ParamField|ResponseField|Property|Snippet|Tooltip)(?:\s[^>]*)?/?>`)
	attrRe         = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|'([^']*)'|\{["']([^"']*)["']\})`)
	trailingWSRe   = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRunRe     = regexp.MustCompile(`\n{3,}`)
	fenceLineRe    = regexp.MustCompile("^\\s*(```|~~~)")
)

// CleanMarkdown rewrites documentation component markup into plain
// Markdown and collapses runs of blank lines. Callouts and admonitions
// become blockquotes, titled steps, tabs and accordions become headings,
// cards become bold links and wrapper components are removed. Fenced code
// blocks are left untouched.
func CleanMarkdown(markdown string) string {
	var (
		out     strings.Builder
		segment []string
		inFence bool
	)
	flushText := func() {
		if len(segment) == 0 {
			return
		}
		out.WriteString(cleanText(strings.Join(segment, "\n")))
		out.WriteString("\n")
		segment = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		if fenceLineRe.MatchString(line) {
			if !inFence {
				flushText()
			}
			inFence = !inFence
			out.WriteString(line + "\n")
			continue
		}
		if inFence {
			out.WriteString(line + "\n")
			continue
		}
		segment = append(segment, line)
	}
	flushText()

	result := trailingWSRe.ReplaceAllString(out.String(), "")
	result = strings.TrimSpace(blankRunRe.ReplaceAllString(result, "\n\n"))
	if result == "" {
		return ""
	}
	return result + "\n"
}

// cleanText applies the component rewrites to text outside code fences.
func cleanText(s string) string {
	for _, tag := range calloutTags {
		label := tag
		s = calloutRes[tag].ReplaceAllStringFunc(s, func(m string) string {
			inner := calloutRes[label].FindStringSubmatch(m)[1]
			return blockquote(label, inner)
		})
	}
	s = admonitionRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := admonitionRe.FindStringSubmatch(m)
		return blockquote(strings.ToUpper(sub[1][:1])+sub[1][1:], sub[2])
	})
	s = strayCalloutRe.ReplaceAllString(s, "")

	s = titledOpenRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := titledOpenRe.FindStringSubmatch(m)
		attrs := parseAttrs(sub[2])
		title := attrs["title"]
		if title == "" {
			title = attrs["label"]
		}
		if title == "" {
			return ""
		}
		return "\n" + headingTags[sub[1]] + " " + title + "\n"
	})
	s = titledCloseRe.ReplaceAllString(s, "")

	s = cardRe.ReplaceAllStringFunc(s, func(m string) string {
		attrs := parseAttrs(cardRe.FindStringSubmatch(m)[1])
		title := attrs["title"]
		if title == "" {
			return ""
		}
		if href := attrs["href"]; href != "" {
			return "\n**[" + title + "](" + href + ")**\n"
		}
		return "\n**" + title + "**\n"
	})

	s = fieldRe.ReplaceAllStringFunc(s, func(m string) string {
		attrs := parseAttrs(fieldRe.FindStringSubmatch(m)[2])
		var name string
		for _, key := range []string{"name", "path", "query", "body", "header"} {
			if name = attrs[key]; name != "" {
				break
			}
		}
		if name == "" {
			return ""
		}
		line := "\n- **" + name + "**"
		if typ := attrs["type"]; typ != "" {
			line += " (`" + typ + "`)"
		}
		if _, ok := attrs["required"]; ok {
			line += " required"
		}
		return line + "\n"
	})

	return wrapperRe.ReplaceAllString(s, "")
}

// blockquote renders a labelled blockquote.
func blockquote(label, inner string) string {
	lines := strings.Split(strings.TrimSpace(inner), "\n")
	var b strings.Builder
	b.WriteString("\n> **" + label + ":**\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			b.WriteString(">\n")
			continue
		}
		b.WriteString("> " + line + "\n")
	}
	return b.String()
}

// parseAttrs reads key="value" pairs from a component's attribute list.
// Bare attributes such as "required" map to "".
func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		attrs[m[1]] = m[2] + m[3] + m[4]
	}
	rest := attrRe.ReplaceAllString(s, "")
	for _, field := range strings.Fields(rest) {
		field = strings.Trim(field, "/")
		if field != "" && !strings.ContainsAny(field, `="'{}`) {
			attrs[field] = ""
		}
	}
	return attrs
}
