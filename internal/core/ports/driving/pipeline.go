package driving

import (
	"context"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

// RunSummary reports what a pipeline run did.
type RunSummary struct {
	// ArticlesProcessed is the number of articles fully processed.
	ArticlesProcessed int

	// ArticlesSkipped is the number skipped via the ledger.
	ArticlesSkipped int

	// ArticlesFailed is the number that failed (fetch, generation or
	// ledger write). Failed articles are retried on the next run.
	ArticlesFailed int

	// CardsAccepted is the number of cards that passed deduplication.
	CardsAccepted int

	// CardsRejected is the number rejected as duplicates.
	CardsRejected int

	// CardsExported is the number the sink confirmed.
	CardsExported int

	// Backend is the signature backend the run used.
	Backend domain.SignatureBackend
}

// Reporter receives user-facing progress events during a run.
// Implementations must not block; the pipeline calls them inline.
type Reporter interface {
	// ArticleStarted is called when processing of an article begins.
	ArticleStarted(article *domain.Article)

	// ArticleSkipped is called when the ledger short-circuits an article.
	ArticleSkipped(origin string, record *domain.LedgerRecord)

	// ArticleFailed is called when an article cannot be processed.
	// The article will be retried on the next run.
	ArticleFailed(origin string, err error)

	// CardRejected is called when a card is rejected as a duplicate,
	// with the best-matching existing entry and its similarity score.
	CardRejected(card *domain.Card, match *domain.AcceptedEntry, similarity float64)

	// ArticleFinished is called after the article's ledger record is
	// written.
	ArticleFinished(article *domain.Article, record *domain.LedgerRecord)
}

// PipelineOrchestrator sequences fetch, generation, deduplication and
// export for a set of articles.
type PipelineOrchestrator interface {
	// Run processes the given article locations to completion.
	// URL and file locations are resolved by the configured fetchers.
	Run(ctx context.Context, urls, files []string) (*RunSummary, error)
}
