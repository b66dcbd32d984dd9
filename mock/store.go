package mock

import (
	"context"

	"github.com/fwojciec/docpack"
)

var _ docpack.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of docpack.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *docpack.PageContent) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *docpack.PageContent) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}
