package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/docpack"
	"github.com/fwojciec/docpack/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config

	Discoverer docpack.Discoverer
	Exporter   *crawl.Exporter
	// Renderers by name; the export command picks one for PDF output.
	Renderers map[string]docpack.Renderer
	// Rescuer fetches a single page for the rescue command.
	Rescuer      docpack.ContentFetcher
	TokenCounter docpack.TokenCounter
	// NewStore creates the per-page store of the dir format.
	NewStore func(baseDir, name string) docpack.PageStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log debug details to stderr"`
	Config  string `type:"path" help:"YAML file overriding thresholds and timeouts"`
	Cache   string `type:"path" env:"DOCPACK_CACHE" help:"Cache database path"`
	NoCache bool   `name:"no-cache" help:"Bypass the response cache"`

	Discover DiscoverCmd `cmd:"" help:"List the pages of a documentation site"`
	Export   ExportCmd   `cmd:"" help:"Export a documentation site as one document"`
	Rescue   RescueCmd   `cmd:"" help:"Import a single page as Markdown"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL     string   `arg:"" help:"Any page of the documentation site"`
	Include []string `short:"i" sep:"none" help:"Only list pages matching regex (repeatable)"`
	Exclude []string `short:"x" sep:"none" help:"Skip pages matching regex (repeatable)"`
	Limit   int      `short:"n" help:"List at most this many pages"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	URL         string   `arg:"" help:"Any page of the documentation site"`
	Output      string   `short:"o" type:"path" help:"Output file, or directory for --format=dir (default: derived from the site title)"`
	Format      string   `short:"f" default:"pdf" enum:"pdf,html,md,dir" help:"Output format (pdf, html, md, dir)"`
	Renderer    string   `default:"browser" enum:"browser,text" help:"PDF renderer: headless browser or plain text"`
	Include     []string `short:"i" sep:"none" help:"Only export pages matching regex (repeatable)"`
	Exclude     []string `short:"x" sep:"none" help:"Skip pages matching regex (repeatable)"`
	Limit       int      `short:"n" help:"Export at most this many pages"`
	Concurrency int      `short:"c" help:"Pages fetched in parallel (default from config)"`
	Tokens      bool     `help:"Print an estimate of the token count"`
}

// RescueCmd is the "rescue" subcommand.
type RescueCmd struct {
	URL    string `arg:"" help:"Page to import"`
	Output string `short:"o" type:"path" help:"Write Markdown to file instead of stdout"`
}
