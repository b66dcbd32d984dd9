package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docpack"
	"github.com/fwojciec/docpack/crawl"
	"github.com/fwojciec/docpack/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	filter, err := docpack.NewURLFilter(c.Include, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}
	opts := crawl.ExportOptions{Filter: filter, Limit: c.Limit}

	exporter := *deps.Exporter
	exporter.Renderer = nil
	if c.Format == "pdf" {
		renderer, ok := deps.Renderers[c.Renderer]
		if !ok {
			err := docpack.Errorf(docpack.EINVALID, "unknown renderer %q", c.Renderer)
			fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
			return err
		}
		exporter.Renderer = renderer
	}
	if batch, ok := exporter.Pages.(*crawl.BatchFetcher); ok && c.Concurrency > 0 {
		b := *batch
		b.Concurrency = c.Concurrency
		exporter.Pages = &b
	}

	result, err := exporter.Export(deps.Ctx, c.URL, opts, progressPrinter(deps.Stderr))
	if err != nil {
		if c.Format == "pdf" && c.Renderer == "browser" && docpack.ErrorCode(err) == docpack.EINTERNAL {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed, or pass --renderer=text")
		}
		return err
	}
	book := result.Book

	path := c.outputPath(book.Site)
	var size int
	switch c.Format {
	case "pdf":
		size = len(result.Output)
		err = fs.WriteFile(path, result.Output)
	case "html":
		size = len(book.HTML)
		err = fs.WriteFile(path, []byte(book.HTML))
	case "md":
		md := docpack.FormatBook(book.Site, book.Contents)
		size = len(md)
		err = fs.WriteFile(path, []byte(md))
	case "dir":
		size, err = c.saveDir(deps, path, book.Contents)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: writing %s: %s\n", path, docpack.ErrorMessage(err))
		return err
	}

	for _, f := range result.Failures {
		fmt.Fprintf(deps.Stderr, "  skipped %s: %s\n", crawl.TruncateURL(f.URL, 60), f.Reason)
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s (%d pages, %s)\n", path, len(book.Contents), crawl.FormatBytes(size))
	if len(result.Failures) > 0 {
		fmt.Fprintf(deps.Stdout, "%d pages skipped\n", len(result.Failures))
	}

	if c.Tokens && deps.TokenCounter != nil {
		tokens, err := deps.TokenCounter.CountTokens(deps.Ctx, docpack.FormatBook(book.Site, book.Contents))
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: counting tokens: %s\n", docpack.ErrorMessage(err))
		} else {
			fmt.Fprintf(deps.Stdout, "Estimated size: %s\n", crawl.FormatTokens(tokens))
		}
	}
	return nil
}

// outputPath returns the requested output path or one derived from the
// site title and the format.
func (c *ExportCmd) outputPath(site *docpack.DocSite) string {
	if c.Output != "" {
		return c.Output
	}
	name := fs.OutputName(site)
	if c.Format == "dir" {
		return name
	}
	return name + "." + c.Format
}

// saveDir writes one Markdown file per page and replaces dir on success.
func (c *ExportCmd) saveDir(deps *Dependencies, dir string, contents []*docpack.PageContent) (int, error) {
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	store := deps.NewStore(filepath.Dir(dir), filepath.Base(dir))

	size := 0
	for _, content := range contents {
		if err := store.Save(deps.Ctx, content); err != nil {
			_ = store.Abort()
			return 0, err
		}
		size += len(content.Markdown)
	}
	if err := store.Commit(); err != nil {
		_ = store.Abort()
		return 0, err
	}
	return size, nil
}
