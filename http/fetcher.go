// Package http provides net/http implementations of docpack's network
// sources: a static page fetcher, the llms.txt index, sitemaps and the
// vendor catalog API.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/docpack"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (15s).
const DefaultFetchTimeout = 15 * time.Second

// DefaultUserAgent identifies docpack to documentation hosts.
const DefaultUserAgent = "Mozilla/5.0 (compatible; docpack/1.0; +https://github.com/fwojciec/docpack)"

// maxBodyBytes caps a single response body.
const maxBodyBytes = 32 << 20

// Ensure Fetcher implements docpack.Fetcher at compile time.
var _ docpack.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page bodies using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript and is suitable
// for static sites only.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient sets the underlying HTTP client. Its Timeout is overridden by
// WithTimeout.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	client := &http.Client{}
	if f.client != nil {
		c := *f.client
		client = &c
	}
	client.Timeout = f.timeout
	f.client = client

	return f
}

// Fetch retrieves the body of the given URL. 404 and 410 responses are
// reported as ENOTFOUND and Cloudflare challenges as EBLOCKED, so callers
// skip retries for both.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", docpack.Errorf(docpack.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/markdown,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.Header.Get("Cf-Mitigated") == "challenge":
		return "", docpack.Errorf(docpack.EBLOCKED, "anti-bot challenge (HTTP %d) for %s", resp.StatusCode, url)
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return "", docpack.Errorf(docpack.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", docpack.Errorf(docpack.EINTERNAL, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Client returns the client Fetch sends requests with, so other sources
// can share its transport and timeout.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Close releases resources. For HTTP fetcher this only drops idle
// connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
