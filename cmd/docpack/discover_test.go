package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/docpack"
	main "github.com/fwojciec/docpack/cmd/docpack"
	"github.com/fwojciec/docpack/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverCmd_Run(t *testing.T) {
	t.Parallel()

	site := &docpack.DocSite{
		BaseURL:             "https://docs.example.com",
		Title:               "Example Docs",
		Framework:           docpack.FrameworkDocusaurus,
		Source:              docpack.SourceLLMSTxt,
		HasFullContentIndex: true,
		FullContentURL:      "https://docs.example.com/llms-full.txt",
		Pages: []docpack.DocPage{
			docpack.NewDocPage("https://docs.example.com/intro", "Introduction", 0, "Getting Started"),
			docpack.NewDocPage("https://docs.example.com/install", "Installation", 1, "Getting Started"),
			docpack.NewDocPage("https://docs.example.com/api/client", "", 0, "API"),
		},
	}

	t.Run("lists pages grouped by section", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Discoverer: &mock.Discoverer{
				DiscoverFn: func(_ context.Context, _ string) (*docpack.DocSite, error) {
					return site, nil
				},
			},
		}

		err := (&main.DiscoverCmd{URL: "https://docs.example.com/intro"}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "Example Docs (llms.txt, 3 pages)")
		assert.Contains(t, out, "Framework: docusaurus")
		assert.Contains(t, out, "Full content: https://docs.example.com/llms-full.txt")
		assert.Contains(t, out, "\nGetting Started\n")
		assert.Contains(t, out, "    Installation  https://docs.example.com/install")
		assert.Contains(t, out, "Client  https://docs.example.com/api/client")
	})

	t.Run("applies the selection", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Discoverer: &mock.Discoverer{
				DiscoverFn: func(_ context.Context, _ string) (*docpack.DocSite, error) {
					return site, nil
				},
			},
		}

		err := (&main.DiscoverCmd{URL: "https://docs.example.com", Exclude: []string{"/api/"}}).Run(deps)

		require.NoError(t, err)
		assert.NotContains(t, stdout.String(), "api/client")
		assert.Contains(t, stdout.String(), "2 of 3 pages selected")
	})

	t.Run("rejects invalid patterns before discovering", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Discoverer: &mock.Discoverer{
				DiscoverFn: func(_ context.Context, _ string) (*docpack.DocSite, error) {
					t.Fatal("discover should not be called")
					return nil, nil
				},
			},
		}

		err := (&main.DiscoverCmd{URL: "https://docs.example.com", Include: []string{"[bad"}}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, docpack.EINVALID, docpack.ErrorCode(err))
		assert.Contains(t, stderr.String(), "invalid include pattern")
	})

	t.Run("reports discovery failure", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Discoverer: &mock.Discoverer{
				DiscoverFn: func(_ context.Context, pageURL string) (*docpack.DocSite, error) {
					return nil, docpack.Errorf(docpack.ENOTFOUND, "no pages found for %s", pageURL)
				},
			},
		}

		err := (&main.DiscoverCmd{URL: "https://docs.example.com"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: no pages found for https://docs.example.com")
	})
}
