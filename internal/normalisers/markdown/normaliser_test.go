package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

func normalise(t *testing.T, uri, content string) *domain.Article {
	t.Helper()
	result, err := New().Normalise(context.Background(), &domain.RawArticle{
		Identity: "id-md",
		URI:      uri,
		MIMEType: "text/markdown",
		Content:  []byte(content),
	})
	require.NoError(t, err)
	return &result.Article
}

func TestNormaliser_StripsFormatting(t *testing.T) {
	content := "# Memory Systems\n\n" +
		"Spaced repetition uses **expanding** intervals.\n\n" +
		"See [the original paper](https://example.com/paper) for details.\n\n" +
		"- Review daily\n" +
		"- Trust the schedule\n"

	article := normalise(t, "/notes/memory-systems.md", content)

	assert.Equal(t, "Memory Systems", article.Title)
	assert.Contains(t, article.Text, "Spaced repetition uses expanding intervals.")
	assert.Contains(t, article.Text, "See the original paper for details.")
	assert.Contains(t, article.Text, "Review daily")
	assert.NotContains(t, article.Text, "**")
	assert.NotContains(t, article.Text, "](")
	assert.NotContains(t, article.Text, "# ")
}

func TestNormaliser_RemovesCodeAndImages(t *testing.T) {
	content := "Intro paragraph.\n\n" +
		"```go\nfunc main() {}\n```\n\n" +
		"![diagram](img/flow.png)\n\n" +
		"Closing paragraph with `rm -rf` removed.\n"

	article := normalise(t, "/notes/code.md", content)

	assert.NotContains(t, article.Text, "func main")
	assert.NotContains(t, article.Text, "flow.png")
	assert.NotContains(t, article.Text, "rm -rf")
	assert.Contains(t, article.Text, "Intro paragraph.")
	assert.Contains(t, article.Text, "Closing paragraph")
}

func TestNormaliser_TitleFallsBackToFilename(t *testing.T) {
	article := normalise(t, "/notes/active_recall-basics.md", "No heading here.\n")
	assert.Equal(t, "active recall basics", article.Title)
	assert.Equal(t, "/notes/active_recall-basics.md", article.FilePath)
}

func TestNormaliser_TitleHintBeatsHeading(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawArticle{
		Identity: "id-md",
		URI:      "https://example.com/post.md",
		MIMEType: "text/markdown",
		Title:    "Given Title",
		Content:  []byte("# Heading Title\n\nBody.\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Given Title", result.Article.Title)
	assert.Equal(t, "https://example.com/post.md", result.Article.URL)
}

func TestNormaliser_NilRaw(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormaliser_Registration(t *testing.T) {
	n := New()
	assert.Equal(t, 50, n.Priority())
	assert.Contains(t, n.SupportedMIMETypes(), "text/markdown")
}
