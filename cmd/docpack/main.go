package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docpack"
	"github.com/fwojciec/docpack/crawl"
	"github.com/fwojciec/docpack/fs"
	"github.com/fwojciec/docpack/gemini"
	"github.com/fwojciec/docpack/gofpdf"
	"github.com/fwojciec/docpack/goldmark"
	"github.com/fwojciec/docpack/goquery"
	"github.com/fwojciec/docpack/htmltomarkdown"
	dochttp "github.com/fwojciec/docpack/http"
	"github.com/fwojciec/docpack/readability"
	"github.com/fwojciec/docpack/rod"
	docslog "github.com/fwojciec/docpack/slog"
	"github.com/fwojciec/docpack/sqlite"
	"github.com/fwojciec/docpack/trafilatura"
	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, docpack.ErrorMessage(err))
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Cache database path. Set before calling Run().
	CachePath string

	// SQLite database backing the response cache.
	DB *sqlite.DB

	// Browser shared by the browser fetcher and the PDF renderer.
	Browser *rod.BrowserManager
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		CachePath: defaultCachePath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.Browser != nil {
		err = m.Browser.Close()
	}
	if m.DB != nil {
		if cerr := m.DB.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docpack"),
		kong.Description("Pack a documentation site into a single PDF, HTML or Markdown document"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docpack --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Config, err = LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	deps.Logger = newLogger(stderr, cli.Verbose).With("job", uuid.NewString())

	if cli.Cache != "" {
		m.CachePath = cli.Cache
	}
	var cache docpack.Cache
	if !cli.NoCache {
		m.DB = sqlite.NewDB(m.CachePath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set DOCPACK_CACHE to use a different cache path, or pass --no-cache")
			return fmt.Errorf("failed to open cache at %q: %w", m.CachePath, err)
		}
		c := sqlite.NewCache(m.DB)
		if n, err := c.Purge(ctx); err == nil && n > 0 {
			deps.Logger.Debug("cache purged", "entries", n)
		}
		cache = c
	}
	defer m.Close()

	m.Browser = rod.NewBrowserManager(rod.WithMaxPages(deps.Config.MaxBrowserPages))
	m.wire(deps, cache)

	return kongCtx.Run(deps)
}

// wire builds the services shared by every command.
func (m *Main) wire(deps *Dependencies, cache docpack.Cache) {
	cfg := deps.Config
	logger := deps.Logger

	staticFetcher := dochttp.NewFetcher()
	var httpFetcher docpack.Fetcher = docslog.NewLoggingFetcher(staticFetcher, logger)
	if cache != nil {
		httpFetcher = crawl.NewCachingFetcher(httpFetcher, cache)
	}
	browserFetcher := docslog.NewLoggingFetcher(rod.NewFetcher(rod.WithManager(m.Browser)), logger)

	detector := goquery.NewDetector()
	trafilaturaExtractor := trafilatura.NewExtractor()
	contentExtractor := goquery.NewContentExtractor(trafilaturaExtractor)
	converter := htmltomarkdown.NewConverter()
	gate := goquery.NewQualityGate(cfg.Thresholds)

	llms := dochttp.NewLLMSTxtSource(httpFetcher)
	llms.MinPages = cfg.Thresholds.MinIndexPages
	llms.Timeout = cfg.Timeouts.IndexFile
	llms.FullContentTimeout = cfg.Timeouts.FullContent

	sitemap := dochttp.NewSitemapSource(httpFetcher)
	sitemap.Thresholds = cfg.Thresholds
	sitemap.Timeout = cfg.Timeouts.Sitemap

	catalog := dochttp.NewCatalogSource(docslog.NewLoggingClient(staticFetcher.Client(), logger))
	catalog.Timeout = cfg.Timeouts.Catalog

	sidebar := &crawl.SidebarSource{
		HTTPFetcher:    httpFetcher,
		BrowserFetcher: browserFetcher,
		Inspector:      docslog.NewLoggingInspector(detector, logger),
		Sidebar:        goquery.NewSidebarExtractor(),
		Extractor:      contentExtractor,
		Timeout:        cfg.Timeouts.Sidebar,
	}

	var discoverer docpack.Discoverer = crawl.NewChain(
		docslog.NewLoggingStrategy(llms, logger),
		docslog.NewLoggingStrategy(sitemap, logger),
		docslog.NewLoggingStrategy(catalog, logger),
		docslog.NewLoggingStrategy(sidebar, logger),
	)
	if cache != nil {
		discoverer = crawl.NewCachingDiscoverer(discoverer, cache)
	}
	deps.Discoverer = discoverer

	pageFetcher := crawl.NewPageFetcher(httpFetcher, contentExtractor, converter, gate)
	pageFetcher.Thresholds = cfg.Thresholds
	pageFetcher.Timeouts = cfg.Timeouts
	pageFetcher.Logger = func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}
	if cfg.RateLimit > 0 {
		pageFetcher.Limiter = crawl.NewDomainLimiter(cfg.RateLimit)
	}

	batch := crawl.NewBatchFetcher(docslog.NewLoggingContentFetcher(pageFetcher, logger))
	batch.Concurrency = cfg.Concurrency
	batch.MinPageChars = cfg.Thresholds.MinPageChars

	fullContent := crawl.NewFullContentFetcher(httpFetcher)
	fullContent.Timeout = cfg.Timeouts.FullContent
	fullContent.MinPageChars = cfg.Thresholds.MinPageChars

	deps.Exporter = &crawl.Exporter{
		Discoverer:  discoverer,
		Pages:       batch,
		FullContent: fullContent,
		Assembler:   goldmark.NewAssembler(),
	}

	deps.Renderers = map[string]docpack.Renderer{
		"browser": docslog.NewLoggingRenderer(rod.NewRenderer(m.Browser), logger),
		"text":    docslog.NewLoggingRenderer(gofpdf.NewRenderer(), logger),
	}

	rescuer := crawl.NewPageFetcher(httpFetcher, readability.NewExtractor(), converter, gate)
	rescuer.HTMLOnly = true
	rescuer.Thresholds = cfg.Thresholds
	rescuer.Timeouts = cfg.Timeouts
	deps.Rescuer = docslog.NewLoggingContentFetcher(rescuer, logger)

	deps.NewStore = func(baseDir, name string) docpack.PageStore {
		return fs.NewFileStore(baseDir, name)
	}

	if tc, err := gemini.NewTokenCounter(cfg.TokenModel); err == nil {
		deps.TokenCounter = tc
	} else {
		logger.Debug("token counting disabled", "err", err)
	}
}

// newLogger returns a text logger on w. Verbose runs log at debug level,
// quiet runs only report warnings.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultCachePath() string {
	if path := os.Getenv("DOCPACK_CACHE"); path != "" {
		return path
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "docpack.db"
	}
	dir = filepath.Join(dir, "docpack")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cache.db")
}
