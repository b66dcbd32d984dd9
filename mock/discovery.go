package mock

import (
	"context"

	"github.com/fwojciec/docpack"
)

var (
	_ docpack.Discoverer        = (*Discoverer)(nil)
	_ docpack.DiscoveryStrategy = (*DiscoveryStrategy)(nil)
)

// Discoverer is a mock implementation of docpack.Discoverer.
type Discoverer struct {
	DiscoverFn func(ctx context.Context, pageURL string) (*docpack.DocSite, error)
}

func (d *Discoverer) Discover(ctx context.Context, pageURL string) (*docpack.DocSite, error) {
	return d.DiscoverFn(ctx, pageURL)
}

// DiscoveryStrategy is a mock implementation of docpack.DiscoveryStrategy.
type DiscoveryStrategy struct {
	NameFn     func() string
	DiscoverFn func(ctx context.Context, pageURL string) (*docpack.DocSite, error)
}

func (s *DiscoveryStrategy) Name() string {
	return s.NameFn()
}

func (s *DiscoveryStrategy) Discover(ctx context.Context, pageURL string) (*docpack.DocSite, error) {
	return s.DiscoverFn(ctx, pageURL)
}
