package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driving"
)

// Ensure colorReporter implements the interface.
var _ driving.Reporter = (*colorReporter)(nil)

// colorReporter prints per-article progress to the terminal.
type colorReporter struct {
	out io.Writer

	title   *color.Color
	skip    *color.Color
	fail    *color.Color
	reject  *color.Color
	success *color.Color
}

func newColorReporter(out io.Writer) *colorReporter {
	return &colorReporter{
		out:     out,
		title:   color.New(color.Bold),
		skip:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
		reject:  color.New(color.FgYellow),
		success: color.New(color.FgGreen),
	}
}

func (r *colorReporter) ArticleStarted(article *domain.Article) {
	r.title.Fprintf(r.out, "Processing %q", article.DisplayTitle())
	fmt.Fprintf(r.out, " (%s)\n", article.Origin())
}

func (r *colorReporter) ArticleSkipped(origin string, record *domain.LedgerRecord) {
	if record != nil && record.Title != "" {
		origin = record.Title
	}
	r.skip.Fprintf(r.out, "Skipping %q: already processed.", origin)
	fmt.Fprintln(r.out, " Use --process-all to override.")
}

func (r *colorReporter) ArticleFailed(origin string, err error) {
	r.fail.Fprintf(r.out, "Failed %s: %v\n", origin, err)
}

func (r *colorReporter) CardRejected(card *domain.Card, match *domain.AcceptedEntry, similarity float64) {
	r.reject.Fprintf(r.out, "  duplicate (%.2f): %s\n", similarity, truncate(card.Text(), 70))
	if match != nil {
		fmt.Fprintf(r.out, "    matches: %s\n", truncate(match.Card.Text(), 70))
	}
}

func (r *colorReporter) ArticleFinished(article *domain.Article, record *domain.LedgerRecord) {
	switch record.Outcome {
	case domain.OutcomeExported:
		r.success.Fprintf(r.out, "Exported %d cards", record.CardsAccepted)
		if record.CardsRejected > 0 {
			fmt.Fprintf(r.out, " (%d duplicates rejected)", record.CardsRejected)
		}
		fmt.Fprintf(r.out, " for %q.\n", article.DisplayTitle())
	case domain.OutcomeAllDuplicates:
		r.skip.Fprintf(r.out, "All %d cards for %q were duplicates.\n",
			record.CardsRejected, article.DisplayTitle())
	default:
		r.skip.Fprintf(r.out, "No cards generated for %q.\n", article.DisplayTitle())
	}
}

// PrintSummary prints the end-of-run totals.
func (r *colorReporter) PrintSummary(summary *driving.RunSummary) {
	fmt.Fprintln(r.out)
	r.title.Fprintln(r.out, "Run complete")
	fmt.Fprintf(r.out, "  articles: %d processed, %d skipped, %d failed\n",
		summary.ArticlesProcessed, summary.ArticlesSkipped, summary.ArticlesFailed)
	fmt.Fprintf(r.out, "  cards:    %d accepted, %d rejected, %d exported\n",
		summary.CardsAccepted, summary.CardsRejected, summary.CardsExported)
	fmt.Fprintf(r.out, "  backend:  %s\n", summary.Backend)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
