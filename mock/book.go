package mock

import (
	"context"
	"time"

	"github.com/fwojciec/docpack"
)

var (
	_ docpack.Assembler = (*Assembler)(nil)
	_ docpack.Renderer  = (*Renderer)(nil)
)

// Assembler is a mock implementation of docpack.Assembler.
type Assembler struct {
	AssembleFn func(site *docpack.DocSite, contents []*docpack.PageContent, generatedAt time.Time) (string, error)
}

func (a *Assembler) Assemble(site *docpack.DocSite, contents []*docpack.PageContent, generatedAt time.Time) (string, error) {
	return a.AssembleFn(site, contents, generatedAt)
}

// Renderer is a mock implementation of docpack.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, book *docpack.Book) ([]byte, error)
}

func (r *Renderer) Render(ctx context.Context, book *docpack.Book) ([]byte, error) {
	return r.RenderFn(ctx, book)
}
