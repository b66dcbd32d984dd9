package rod

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/docpack"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRenderTimeout bounds printing one book.
const DefaultRenderTimeout = 2 * time.Minute

// Ensure Renderer implements docpack.Renderer at compile time.
var _ docpack.Renderer = (*Renderer)(nil)

// Renderer prints assembled books to PDF with the shared headless browser.
type Renderer struct {
	manager *BrowserManager
	Timeout time.Duration
}

// NewRenderer creates a Renderer on top of manager.
func NewRenderer(manager *BrowserManager) *Renderer {
	return &Renderer{manager: manager, Timeout: DefaultRenderTimeout}
}

// Render loads the book's HTML into a blank page and prints it. Page size
// and margins come from the document's @page rule.
func (r *Renderer) Render(ctx context.Context, book *docpack.Book) ([]byte, error) {
	if book == nil || book.HTML == "" {
		return nil, docpack.Errorf(docpack.EINVALID, "nothing to render")
	}

	browser, err := r.manager.Browser()
	if err != nil {
		return nil, err
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = page.Close() }()
	defer r.manager.IncrementPageCount()

	page = page.Context(ctx)
	if err := page.SetDocumentContent(book.HTML); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, docpack.Errorf(docpack.EINTERNAL, "printing PDF: %v", err)
	}
	return io.ReadAll(stream)
}
