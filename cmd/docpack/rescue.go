package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/docpack"
	"github.com/fwojciec/docpack/fs"
)

// Run executes the rescue command.
func (c *RescueCmd) Run(deps *Dependencies) error {
	page := docpack.NewDocPage(c.URL, "", 0, "")

	content, err := deps.Rescuer.FetchPage(deps.Ctx, page)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	if c.Output == "" {
		if content.Title != "" && docpack.FirstHeading(content.Markdown) == "" {
			fmt.Fprintf(deps.Stdout, "# %s\n\n", content.Title)
		}
		fmt.Fprint(deps.Stdout, content.Markdown)
		return nil
	}

	md, err := fs.FormatPage(content, time.Now())
	if err != nil {
		return err
	}
	if err := fs.WriteFile(c.Output, []byte(md)); err != nil {
		fmt.Fprintf(deps.Stderr, "error: writing %s: %s\n", c.Output, docpack.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s (%d words)\n", c.Output, content.WordCount)
	return nil
}
