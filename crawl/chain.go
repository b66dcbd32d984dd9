package crawl

import (
	"context"
	"net/url"

	"github.com/fwojciec/docpack"
)

// Ensure Chain implements docpack.Discoverer.
var _ docpack.Discoverer = (*Chain)(nil)

// Chain discovers a site's page list by trying each strategy in order.
// The first strategy that returns a non-empty page list wins; failing
// strategies are skipped. Wrap strategies with slog.LoggingStrategy to
// record the skipped steps.
type Chain struct {
	Strategies []docpack.DiscoveryStrategy
}

// NewChain creates a Chain over strategies, tried in the given order.
func NewChain(strategies ...docpack.DiscoveryStrategy) *Chain {
	return &Chain{Strategies: strategies}
}

// Discover returns the first non-empty site produced by the chain. Every
// accepted site is deduplicated, given the host as a fallback title and
// the page's origin as its BaseURL.
func (c *Chain) Discover(ctx context.Context, pageURL string) (*docpack.DocSite, error) {
	origin, err := docpack.Origin(pageURL)
	if err != nil {
		return nil, err
	}

	for _, s := range c.Strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		site, err := s.Discover(ctx, pageURL)
		if err != nil || site == nil || len(site.Pages) == 0 {
			continue
		}
		return finishSite(site, origin, s.Name()), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, docpack.Errorf(docpack.ENOTFOUND, "no pages found for %s", pageURL)
}

func finishSite(site *docpack.DocSite, origin, source string) *docpack.DocSite {
	out := *site
	out.Pages = docpack.DedupePages(site.Pages)
	out.BaseURL = origin
	if out.Source == "" {
		out.Source = source
	}
	if out.Title == "" {
		if u, err := url.Parse(origin); err == nil {
			out.Title = u.Host
		}
	}
	return &out
}
