package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driving"
)

func plainReporter(t *testing.T) (*colorReporter, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	return newColorReporter(&buf), &buf
}

func TestColorReporter_ArticleLifecycle(t *testing.T) {
	reporter, buf := plainReporter(t)

	article := &domain.Article{
		Identity:  "id-1",
		Title:     "Deep Work",
		URL:       "https://example.com/deep-work",
		FetchedAt: time.Now(),
	}

	reporter.ArticleStarted(article)
	reporter.ArticleFinished(article, &domain.LedgerRecord{
		Outcome:       domain.OutcomeExported,
		CardsAccepted: 4,
		CardsRejected: 1,
	})

	out := buf.String()
	assert.Contains(t, out, `Processing "Deep Work"`)
	assert.Contains(t, out, "https://example.com/deep-work")
	assert.Contains(t, out, "Exported 4 cards (1 duplicates rejected)")
}

func TestColorReporter_SkipAndFail(t *testing.T) {
	reporter, buf := plainReporter(t)

	reporter.ArticleSkipped("https://example.com/a", &domain.LedgerRecord{Title: "Old Article"})
	reporter.ArticleFailed("https://example.com/b", errors.New("connection refused"))

	out := buf.String()
	assert.Contains(t, out, `Skipping "Old Article": already processed`)
	assert.Contains(t, out, "--process-all")
	assert.Contains(t, out, "Failed https://example.com/b: connection refused")
}

func TestColorReporter_CardRejected(t *testing.T) {
	reporter, buf := plainReporter(t)

	card := &domain.Card{
		Kind: domain.CardKindBasic,
		Fields: []domain.CardField{
			{Name: "Front", Value: "What is caching?"},
			{Name: "Back", Value: "Storing results for reuse"},
		},
	}
	match := &domain.AcceptedEntry{
		Card: domain.Card{
			Kind: domain.CardKindBasic,
			Fields: []domain.CardField{
				{Name: "Front", Value: "Define caching"},
				{Name: "Back", Value: "Keeping results around"},
			},
		},
	}

	reporter.CardRejected(card, match, 0.93)

	out := buf.String()
	assert.Contains(t, out, "duplicate (0.93)")
	assert.Contains(t, out, "What is caching?")
	assert.Contains(t, out, "Define caching")
}

func TestColorReporter_AllDuplicatesOutcome(t *testing.T) {
	reporter, buf := plainReporter(t)

	article := &domain.Article{Identity: "id-2", Title: "Old News"}
	reporter.ArticleFinished(article, &domain.LedgerRecord{
		Outcome:       domain.OutcomeAllDuplicates,
		CardsRejected: 3,
	})

	assert.Contains(t, buf.String(), `All 3 cards for "Old News" were duplicates.`)
}

func TestColorReporter_PrintSummary(t *testing.T) {
	reporter, buf := plainReporter(t)

	reporter.PrintSummary(&driving.RunSummary{
		ArticlesProcessed: 2,
		ArticlesSkipped:   1,
		CardsAccepted:     7,
		CardsRejected:     2,
		CardsExported:     7,
		Backend:           domain.BackendLexical,
	})

	out := buf.String()
	assert.Contains(t, out, "articles: 2 processed, 1 skipped, 0 failed")
	assert.Contains(t, out, "cards:    7 accepted, 2 rejected, 7 exported")
	assert.Contains(t, out, "backend:  lexical")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very ...", truncate("a very long line indeed", 10))
}
