package rod

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// SetLaunch replaces the browser launcher for tests.
func (bm *BrowserManager) SetLaunch(fn func() (*rod.Browser, *launcher.Launcher, error)) {
	bm.launch = fn
}
