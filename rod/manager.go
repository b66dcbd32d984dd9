package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/docpack"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// BrowserManager owns the process-wide headless Chrome. The browser is
// launched on first use, shared by the fetcher and the PDF renderer, and
// recycled after maxPages pages because Chrome's memory baseline keeps
// growing even when pages are closed.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	ready     bool
	closed    bool
	pageCount int64
	maxPages  int64

	// launch starts a browser; replaced in tests.
	launch func() (*rod.Browser, *launcher.Launcher, error)
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the maximum number of pages before the browser is recycled.
// Defaults to 75 if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager creates a BrowserManager. No browser is started until
// Browser is first called. Close must be called when the BrowserManager is
// no longer needed.
func NewBrowserManager(opts ...ManagerOption) *BrowserManager {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		launch:   launchBrowser,
	}
	for _, opt := range opts {
		opt(bm)
	}
	return bm
}

// Browser returns the shared browser, launching it on first use and
// recycling it once maxPages pages have been processed. Callers should
// call IncrementPageCount after using the browser to process a page.
func (bm *BrowserManager) Browser() (*rod.Browser, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, docpack.Errorf(docpack.EINVALID, "browser manager is closed")
	}
	if !bm.ready {
		browser, l, err := bm.launch()
		if err != nil {
			return nil, err
		}
		bm.browser, bm.launcher, bm.ready = browser, l, true
		bm.pageCount = 0
		return bm.browser, nil
	}
	if bm.pageCount >= bm.maxPages {
		bm.recycleBrowser()
	}
	return bm.browser, nil
}

// Ready reports whether a browser is currently running.
func (bm *BrowserManager) Ready() bool {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.ready
}

// IncrementPageCount increments the page counter. Call this after successfully
// processing a page to track progress toward the recycling threshold.
func (bm *BrowserManager) IncrementPageCount() {
	bm.mu.Lock()
	bm.pageCount++
	bm.mu.Unlock()
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	return bm.closeBrowser()
}

// LauncherPID returns the process ID of the browser launcher, or 0 when no
// browser is running.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// launchBrowser starts a new browser instance with stability flags.
func launchBrowser() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, docpack.Errorf(docpack.EINTERNAL, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	bm.ready = false
	return err
}

// recycleBrowser starts a fresh browser and closes the old one.
// If launching the new browser fails, the old browser is kept.
// Must be called with mu held.
func (bm *BrowserManager) recycleBrowser() {
	browser, l, err := bm.launch()
	if err != nil {
		return
	}

	if bm.browser != nil {
		_ = bm.browser.Close()
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
	}
	bm.browser, bm.launcher = browser, l
	bm.pageCount = 0
}
