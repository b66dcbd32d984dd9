package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/docpack"
)

// SummaryFile lists the exported pages in reading order, grouped by
// section, the way GitBook and mdBook lay out a book.
const SummaryFile = "SUMMARY.md"

var _ docpack.PageStore = (*FileStore)(nil)

// FileStore writes a per-page Markdown export. Pages go to name.tmp below
// baseDir and replace baseDir/name only on Commit, so a failed export never
// leaves a half-written directory behind.
type FileStore struct {
	baseDir string
	name    string

	mu    sync.Mutex
	saved []savedPage

	// Now stamps the fetched date of saved pages. Defaults to time.Now.
	Now func() time.Time
}

type savedPage struct {
	path    string
	title   string
	section string
}

// NewFileStore creates a FileStore exporting to baseDir/name.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
		Now:     time.Now,
	}
}

func (s *FileStore) stagingDir() string { return filepath.Join(s.baseDir, s.name+".tmp") }
func (s *FileStore) outputDir() string  { return filepath.Join(s.baseDir, s.name) }

// Save writes page to the staging directory at the path its URL maps to.
func (s *FileStore) Save(ctx context.Context, page *docpack.PageContent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, err := URLToPath(page.URL)
	if err != nil {
		return err
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}
	content, err := FormatPage(page, now())
	if err != nil {
		return err
	}

	path := filepath.Join(s.stagingDir(), rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}

	s.mu.Lock()
	s.saved = append(s.saved, savedPage{path: filepath.ToSlash(rel), title: page.Title, section: page.Section})
	s.mu.Unlock()
	return nil
}

// Commit writes SUMMARY.md and swaps the staging directory into place,
// removing any previous export of the same name.
func (s *FileStore) Commit() error {
	if _, err := os.Stat(s.stagingDir()); os.IsNotExist(err) {
		return docpack.Errorf(docpack.EINVALID, "no pages saved")
	}

	s.mu.Lock()
	summary := formatSummary(s.saved)
	s.mu.Unlock()
	summaryPath := filepath.Join(s.stagingDir(), SummaryFile)
	// A page that maps to SUMMARY.md wins over the generated list.
	if _, err := os.Stat(summaryPath); os.IsNotExist(err) {
		if err := os.WriteFile(summaryPath, []byte(summary), 0o644); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(s.outputDir()); err != nil {
		return err
	}
	return os.Rename(s.stagingDir(), s.outputDir())
}

// Abort discards the staging directory.
func (s *FileStore) Abort() error {
	s.mu.Lock()
	s.saved = nil
	s.mu.Unlock()
	return os.RemoveAll(s.stagingDir())
}

// formatSummary renders the saved pages as a Markdown link list. A
// section heading is written whenever the section changes.
func formatSummary(pages []savedPage) string {
	var b strings.Builder
	b.WriteString("# Summary\n")
	section := ""
	for i, p := range pages {
		if p.section != section || i == 0 {
			section = p.section
			if section != "" {
				fmt.Fprintf(&b, "\n## %s\n", section)
			}
			b.WriteString("\n")
		}
		title := p.title
		if title == "" {
			title = p.path
		}
		fmt.Fprintf(&b, "- [%s](%s)\n", escapeLinkText(title), p.path)
	}
	return b.String()
}

var linkTextEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

func escapeLinkText(s string) string {
	return linkTextEscaper.Replace(s)
}
