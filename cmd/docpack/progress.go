package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/docpack"
	"github.com/fwojciec/docpack/crawl"
)

// progressPrinter reports job progress on one line per event.
func progressPrinter(w io.Writer) docpack.ProgressFunc {
	return func(p docpack.FetchProgress) {
		switch p.Phase {
		case docpack.PhaseDiscovering:
			fmt.Fprintf(w, "Discovering pages from %s\n", p.CurrentPage)
		case docpack.PhaseFetching:
			if p.Current == 0 {
				fmt.Fprintf(w, "  Found %d pages\n", p.Total)
				return
			}
			line := fmt.Sprintf("  [%d/%d]", p.Current, p.Total)
			if p.CurrentPage != "" {
				line += " " + crawl.TruncateURL(p.CurrentPage, 60)
			}
			fmt.Fprintln(w, line)
		case docpack.PhaseRendering:
			fmt.Fprintf(w, "Rendering %d pages\n", p.Total)
		case docpack.PhaseError:
			fmt.Fprintf(w, "error: %s\n", docpack.ErrorMessage(p.Err))
		}
	}
}
