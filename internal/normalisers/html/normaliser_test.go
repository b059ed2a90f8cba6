package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

func rawHTML(uri, content string) *domain.RawArticle {
	return &domain.RawArticle{
		Identity: "id-html",
		URI:      uri,
		MIMEType: "text/html",
		Content:  []byte(content),
	}
}

func TestNormaliser_ExtractsBlockText(t *testing.T) {
	page := `<html><head><title>Effective Caching</title></head><body>
		<h1>Effective Caching</h1>
		<p>Caches trade memory for latency.</p>
		<p>Invalidation is the hard part.</p>
	</body></html>`

	result, err := New().Normalise(context.Background(), rawHTML("https://example.com/caching", page))
	require.NoError(t, err)

	assert.Equal(t, "Effective Caching", result.Article.Title)
	assert.Equal(t, "Effective Caching\nCaches trade memory for latency.\nInvalidation is the hard part.", result.Article.Text)
	assert.Equal(t, "https://example.com/caching", result.Article.URL)
	assert.Empty(t, result.Article.FilePath)
	assert.Equal(t, "id-html", result.Article.Identity)
}

func TestNormaliser_StripsChromeAndComments(t *testing.T) {
	page := `<html><body>
		<nav><a href="/">Home</a></nav>
		<script>trackVisit();</script>
		<style>p { color: red; }</style>
		<p>The actual article.</p>
		<div class="comment-section"><p>First!</p></div>
		<div id="Comments"><p>Great post.</p></div>
		<footer>Copyright 2025</footer>
	</body></html>`

	result, err := New().Normalise(context.Background(), rawHTML("https://example.com/post", page))
	require.NoError(t, err)

	assert.Equal(t, "The actual article.", result.Article.Text)
}

func TestNormaliser_TitlePreference(t *testing.T) {
	t.Run("raw title wins", func(t *testing.T) {
		raw := rawHTML("https://example.com/a", `<html><head><title>Page Title</title></head><body><p>x</p></body></html>`)
		raw.Title = "Explicit Title"

		result, err := New().Normalise(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, "Explicit Title", result.Article.Title)
	})

	t.Run("og title beats title tag", func(t *testing.T) {
		page := `<html><head>
			<title>SEO Noise | Site Name</title>
			<meta property="og:title" content="Clean Title">
		</head><body><p>x</p></body></html>`

		result, err := New().Normalise(context.Background(), rawHTML("https://example.com/a", page))
		require.NoError(t, err)
		assert.Equal(t, "Clean Title", result.Article.Title)
	})

	t.Run("falls back to filename", func(t *testing.T) {
		result, err := New().Normalise(context.Background(), rawHTML("/articles/deep-learning_intro.html", `<html><body><p>x</p></body></html>`))
		require.NoError(t, err)
		assert.Equal(t, "deep learning intro", result.Article.Title)
		assert.Equal(t, "/articles/deep-learning_intro.html", result.Article.FilePath)
	})
}

func TestNormaliser_NestedBlocksNotDuplicated(t *testing.T) {
	page := `<html><body>
		<blockquote><p>Quoted line.</p></blockquote>
		<ul><li>First item</li><li>Second item</li></ul>
	</body></html>`

	result, err := New().Normalise(context.Background(), rawHTML("https://example.com/q", page))
	require.NoError(t, err)

	assert.Equal(t, "Quoted line.\nFirst item\nSecond item", result.Article.Text)
}

func TestNormaliser_FallsBackToBodyText(t *testing.T) {
	result, err := New().Normalise(context.Background(), rawHTML("https://example.com/bare", `<html><body>Just   bare
		text</body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "Just bare text", result.Article.Text)
}

func TestNormaliser_NilRaw(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormaliser_SupportedMIMETypes(t *testing.T) {
	n := New()
	assert.Contains(t, n.SupportedMIMETypes(), "text/html")
	assert.Contains(t, n.SupportedMIMETypes(), "application/xhtml+xml")
	assert.Greater(t, n.Priority(), 5)
}
