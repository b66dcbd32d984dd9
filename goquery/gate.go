package goquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docpack"
)

var _ docpack.QualityGate = (*QualityGate)(nil)

// hostCheck describes the markup a legitimate page on a host always has.
// A page missing both the container and a populated title is a block page.
type hostCheck struct {
	name      string
	host      *regexp.Regexp
	container string
	title     string
}

var hostChecks = []hostCheck{
	{
		name:      "wechat",
		host:      regexp.MustCompile(`(^|\.)mp\.weixin\.qq\.com$`),
		container: "#js_content",
		title:     "#activity-name, .rich_media_title, meta[property='og:title']",
	},
	{
		name:      "zhihu",
		host:      regexp.MustCompile(`(^|\.)zhuanlan\.zhihu\.com$`),
		container: ".Post-RichText, .RichText",
		title:     ".Post-Title, meta[property='og:title']",
	},
}

// blockPhraseRe matches phrases only verification and bot-check pages
// use. Words that documentation also uses on its own, such as "access
// denied" on IAM pages or 验证码 on SMS login pages, are left out.
var blockPhraseRe = regexp.MustCompile(`(?i)(verify you are (a )?human|checking (if the site connection is secure|your browser)|just a moment\.\.\.|attention required! \| cloudflare|cloudflare ray id|are you a robot|enable javascript and cookies to continue|please complete the security check|当前环境异常|人机验证|请完成安全验证|访问过于频繁)`)

// QualityGate rejects content that looks like a paywall, login wall or
// anti-bot page instead of a real article.
type QualityGate struct {
	MinContentChars     int
	PhraseCheckMaxChars int
	LargeHTMLBytes      int
	MinWordsLargeHTML   int
}

// NewQualityGate creates a QualityGate from thresholds.
func NewQualityGate(t docpack.Thresholds) *QualityGate {
	return &QualityGate{
		MinContentChars:     t.MinContentChars,
		PhraseCheckMaxChars: t.PhraseCheckMaxChars,
		LargeHTMLBytes:      t.LargeHTMLBytes,
		MinWordsLargeHTML:   t.MinWordsLargeHTML,
	}
}

// IsBlocked returns why the content looks blocked, or "" if it is accepted.
// The checks run in order and the first match wins: minimum length, known
// host markup, block phrases, then the content-to-markup ratio.
func (g *QualityGate) IsBlocked(markdown, rawHTML, pageURL string) string {
	content := strings.TrimSpace(markdown)
	if n := len([]rune(content)); n < g.MinContentChars {
		return fmt.Sprintf("content too short (%d chars)", n)
	}

	if rawHTML != "" {
		if reason := g.checkHost(rawHTML, pageURL); reason != "" {
			return reason
		}
	}

	if g.PhraseCheckMaxChars <= 0 || len([]rune(content)) <= g.PhraseCheckMaxChars {
		if m := blockPhraseRe.FindString(content); m != "" {
			return fmt.Sprintf("verification page (%q)", m)
		}
	}

	if g.LargeHTMLBytes > 0 && len(rawHTML) >= g.LargeHTMLBytes {
		if words := docpack.CountWords(content); words < g.MinWordsLargeHTML {
			return fmt.Sprintf("empty shell (%d words from %d bytes of HTML)", words, len(rawHTML))
		}
	}

	return ""
}

// checkHost applies the structural check for known hosts.
func (g *QualityGate) checkHost(rawHTML, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())

	for _, check := range hostChecks {
		if !check.host.MatchString(host) {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
		if err != nil {
			return ""
		}
		if doc.Find(check.container).Length() == 0 && !hasTitle(doc, check.title) {
			return fmt.Sprintf("%s block page (article markup missing)", check.name)
		}
		return ""
	}
	return ""
}

// hasTitle reports whether any title element or meta tag is populated.
func hasTitle(doc *goquery.Document, selector string) bool {
	found := false
	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if content, ok := sel.Attr("content"); ok {
			text = content
		}
		found = strings.TrimSpace(text) != ""
		return !found
	})
	return found
}
