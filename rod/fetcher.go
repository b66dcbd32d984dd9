// Package rod renders JavaScript documentation sites and prints books to
// PDF with a headless Chrome driven by go-rod.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/docpack"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout is the default timeout for one page render.
// Kept consistent with http.DefaultFetchTimeout (15s).
const DefaultFetchTimeout = 15 * time.Second

// Ensure Fetcher implements docpack.Fetcher at compile time.
var _ docpack.Fetcher = (*Fetcher)(nil)

// serializeJS returns the rendered document including open shadow roots,
// which hold the navigation of web-component based sites.
const serializeJS = `() => {
  const roots = [];
  const walk = (root) => {
    root.querySelectorAll('*').forEach((el) => {
      if (el.shadowRoot) {
        roots.push(el.shadowRoot);
        walk(el.shadowRoot);
      }
    });
  };
  walk(document);
  const el = document.documentElement;
  if (typeof el.getHTML === 'function') {
    return '<!DOCTYPE html>' + el.getHTML({ serializableShadowRoots: true, shadowRoots: roots });
  }
  return '<!DOCTYPE html>' + el.outerHTML;
}`

// Fetcher retrieves rendered HTML using the shared headless browser.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager     *BrowserManager
	ownsManager bool
	timeout     time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for one page render.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithManager shares an existing BrowserManager. The Fetcher does not
// close a shared manager.
func WithManager(bm *BrowserManager) Option {
	return func(f *Fetcher) {
		f.manager = bm
	}
}

// NewFetcher creates a Fetcher. Chrome is launched on the first Fetch.
// Close must be called when the Fetcher is no longer needed.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}
	if f.manager == nil {
		f.manager = NewBrowserManager()
		f.ownsManager = true
	}
	return f
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.manager.Browser()
	if err != nil {
		return "", err
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer func() { _ = page.Close() }()
	defer f.manager.IncrementPageCount()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	res, err := page.Eval(serializeJS)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// LauncherPID returns the process ID of the browser launcher, or 0 before
// the first Fetch.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.ownsManager {
		return nil
	}
	return f.manager.Close()
}
