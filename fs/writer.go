// Package fs provides file-based output for exported documentation.
package fs

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/docpack"
	"gopkg.in/yaml.v3"
)

// URLToPath converts a documentation URL to a relative file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", docpack.Errorf(docpack.EINVALID, "invalid page URL %q: %v", rawURL, err)
	}

	path := u.Path
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return "", docpack.Errorf(docpack.EINVALID, "path traversal in %s", rawURL)
		}
	}

	// Handle root or trailing slash → index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	// Remove leading slash
	path = strings.TrimPrefix(path, "/")

	// Trailing slash becomes index.md in that directory
	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	// Mirrors of Markdown files keep their name
	if strings.HasSuffix(path, ".md") {
		return path, nil
	}

	return path + ".md", nil
}

// frontMatter is the YAML header written above every exported page.
type frontMatter struct {
	Source  string `yaml:"source"`
	Title   string `yaml:"title"`
	Section string `yaml:"section,omitempty"`
	Fetched string `yaml:"fetched"`
}

// FormatPage formats a page with YAML frontmatter.
func FormatPage(page *docpack.PageContent, fetched time.Time) (string, error) {
	header, err := yaml.Marshal(frontMatter{
		Source:  page.URL,
		Title:   page.Title,
		Section: page.Section,
		Fetched: fetched.Format("2006-01-02"),
	})
	if err != nil {
		return "", docpack.Errorf(docpack.EINTERNAL, "encoding front matter: %v", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(page.Markdown)
	return b.String(), nil
}

// WriteFile writes data to path through a temporary file in the same
// directory, so readers never see a partially written export.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// OutputName derives a file name stem from a site: its title when it has
// one, its host otherwise, lowercased with runs of other characters
// replaced by a single dash.
func OutputName(site *docpack.DocSite) string {
	name := ""
	if site != nil {
		name = site.Title
		if name == "" {
			if u, err := url.Parse(site.BaseURL); err == nil {
				name = u.Hostname()
			}
		}
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "docs"
	}
	return out
}
