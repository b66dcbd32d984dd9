package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docpack"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	filter, err := docpack.NewURLFilter(c.Include, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	site, err := deps.Discoverer.Discover(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	pages := filter.SelectPages(site.Pages, c.Limit)

	fmt.Fprintf(deps.Stdout, "%s (%s, %d pages)\n", site.Title, site.Source, len(site.Pages))
	if site.Framework != docpack.FrameworkUnknown {
		fmt.Fprintf(deps.Stdout, "Framework: %s\n", site.Framework)
	}
	if site.HasFullContentIndex {
		fmt.Fprintf(deps.Stdout, "Full content: %s\n", site.FullContentURL)
	}

	section := ""
	for _, p := range pages {
		if p.Section != section {
			section = p.Section
			if section != "" {
				fmt.Fprintf(deps.Stdout, "\n%s\n", section)
			}
		}
		title := p.Title
		if title == "" {
			title = docpack.TitleFromPath(p.URL)
		}
		fmt.Fprintf(deps.Stdout, "%s%s  %s\n", strings.Repeat("  ", p.Level+1), title, p.URL)
	}

	if len(pages) < len(site.Pages) {
		fmt.Fprintf(deps.Stdout, "\n%d of %d pages selected\n", len(pages), len(site.Pages))
	}
	return nil
}
