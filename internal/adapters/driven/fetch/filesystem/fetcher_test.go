package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

func TestFetcher_ReadsFileWithContentIdentity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep-work.md")
	content := []byte("# Deep Work\n\nFocus without distraction.\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	raw, err := NewFetcher().Fetch(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, domain.IdentityFromContent(content), raw.Identity)
	assert.Equal(t, "text/markdown", raw.MIMEType)
	assert.Equal(t, "deep-work", raw.Title)
	assert.Equal(t, content, raw.Content)
	assert.False(t, raw.FromCache)
}

func TestFetcher_IdentityFollowsContentNotPath(t *testing.T) {
	dir := t.TempDir()
	content := []byte("same words either way")
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "renamed.txt")
	require.NoError(t, os.WriteFile(a, content, 0o644))
	require.NoError(t, os.WriteFile(b, content, 0o644))

	rawA, err := NewFetcher().Fetch(context.Background(), a)
	require.NoError(t, err)
	rawB, err := NewFetcher().Fetch(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, rawA.Identity, rawB.Identity)
}

func TestFetcher_UnsupportedExtension(t *testing.T) {
	_, err := NewFetcher().Fetch(context.Background(), "notes.epub")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestFetcher_MissingFile(t *testing.T) {
	_, err := NewFetcher().Fetch(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestSupportedFile(t *testing.T) {
	assert.True(t, SupportedFile("articles/essay.txt"))
	assert.True(t, SupportedFile("articles/ESSAY.MD"))
	assert.True(t, SupportedFile("articles/page.html"))
	assert.True(t, SupportedFile("articles/report.docx"))
	assert.False(t, SupportedFile("articles/urls.csv"))
	assert.False(t, SupportedFile("articles/noext"))
}
