package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driving"
	"github.com/JapanColorado/article-to-anki/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.PipelineOrchestrator = (*Pipeline)(nil)

// Pipeline sequences fetch, generation, deduplication and export.
//
// Articles are processed one at a time to completion: the ledger gates
// generation, the decision engine gates acceptance, and each article's
// ledger record is flushed before the next article begins.
type Pipeline struct {
	webFetcher  driven.Fetcher
	fileFetcher driven.Fetcher
	registry    driven.NormaliserRegistry
	generator   driven.CardGenerator
	exporter    driven.CardExporter
	ledger      driven.LedgerStore
	builder     *SignatureBuilder
	engine      *DedupeEngine
	settings    domain.Settings
	reporter    driving.Reporter
}

// NewPipeline creates a pipeline orchestrator.
// reporter may be nil, in which case progress events are dropped.
func NewPipeline(
	webFetcher driven.Fetcher,
	fileFetcher driven.Fetcher,
	registry driven.NormaliserRegistry,
	generator driven.CardGenerator,
	exporter driven.CardExporter,
	ledger driven.LedgerStore,
	builder *SignatureBuilder,
	engine *DedupeEngine,
	settings domain.Settings,
	reporter driving.Reporter,
) *Pipeline {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Pipeline{
		webFetcher:  webFetcher,
		fileFetcher: fileFetcher,
		registry:    registry,
		generator:   generator,
		exporter:    exporter,
		ledger:      ledger,
		builder:     builder,
		engine:      engine,
		settings:    settings,
		reporter:    reporter,
	}
}

// Run processes the given article locations to completion.
func (p *Pipeline) Run(ctx context.Context, urls, files []string) (*driving.RunSummary, error) {
	if p.generator == nil {
		return nil, domain.ErrGeneratorUnavailable
	}
	if err := p.settings.Validate(); err != nil {
		return nil, err
	}
	if err := p.exporter.Prepare(ctx); err != nil {
		return nil, fmt.Errorf("prepare exporter: %w", err)
	}

	summary := &driving.RunSummary{Backend: p.builder.Backend()}

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		p.processURL(ctx, url, summary)
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		p.processFile(ctx, file, summary)
	}

	return summary, nil
}

// processURL handles one web article. The identity is derived from the
// canonical URL, so the ledger can short-circuit before any network
// traffic happens.
func (p *Pipeline) processURL(ctx context.Context, url string, summary *driving.RunSummary) {
	identity := domain.IdentityFromURL(url)

	if skipped := p.ledgerGate(ctx, url, identity, summary); skipped {
		return
	}

	raw, err := p.webFetcher.Fetch(ctx, url)
	if err != nil {
		p.fail(url, err, summary)
		return
	}
	p.processRaw(ctx, raw, summary)
}

// processFile handles one local article. Identity is derived from file
// content, so the file must be read before the ledger gate.
func (p *Pipeline) processFile(ctx context.Context, path string, summary *driving.RunSummary) {
	raw, err := p.fileFetcher.Fetch(ctx, path)
	if err != nil {
		p.fail(path, err, summary)
		return
	}

	if skipped := p.ledgerGate(ctx, path, raw.Identity, summary); skipped {
		return
	}
	p.processRaw(ctx, raw, summary)
}

// ledgerGate reports whether the article should be skipped. The ledger
// is the sole gate for skip-vs-process decisions; the similarity index
// plays no part here.
func (p *Pipeline) ledgerGate(ctx context.Context, origin, identity string, summary *driving.RunSummary) bool {
	if p.settings.ProcessAll {
		return false
	}
	processed, err := p.ledger.HasProcessed(ctx, identity)
	if err != nil {
		// Without a readable ledger the idempotence guarantee is gone;
		// the article is reported failed and retried next run.
		p.fail(origin, fmt.Errorf("ledger lookup: %w", err), summary)
		return true
	}
	if !processed {
		return false
	}

	record, err := p.ledger.Get(ctx, identity)
	if err != nil {
		record = nil // skip still applies; the detail is only for display
	}
	logger.Info("Skipping %s: already processed", origin)
	p.reporter.ArticleSkipped(origin, record)
	summary.ArticlesSkipped++
	return true
}

// processRaw runs normalisation, generation, deduplication, export and
// ledger write for one fetched article.
func (p *Pipeline) processRaw(ctx context.Context, raw *domain.RawArticle, summary *driving.RunSummary) {
	normaliser, err := p.registry.Find(raw.MIMEType)
	if err != nil {
		p.fail(raw.URI, err, summary)
		return
	}
	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		p.fail(raw.URI, fmt.Errorf("normalise: %w", err), summary)
		return
	}
	article := result.Article

	if strings.TrimSpace(article.Text) == "" {
		// Generation was never attempted, so the article stays out of
		// the ledger and is retried next run.
		p.fail(raw.URI, fmt.Errorf("%w: no text extracted", domain.ErrFetchFailed), summary)
		return
	}

	p.reporter.ArticleStarted(&article)

	cards, err := p.generator.Generate(ctx, &article, p.settings.CustomPrompt)
	if err != nil {
		p.fail(raw.URI, fmt.Errorf("generate cards: %w", err), summary)
		return
	}
	logger.Debug("Generated %d candidate cards for %q", len(cards), article.DisplayTitle())

	accepted, rejected, err := p.dedupe(ctx, cards, summary)
	if err != nil {
		p.fail(raw.URI, err, summary)
		return
	}

	exported := 0
	if len(accepted) > 0 {
		report, err := p.exporter.Export(ctx, accepted, article.DisplayTitle(), p.settings.Deck)
		if err != nil {
			// Export transport failure leaves the article unmarked so
			// the cards are regenerated next run.
			p.fail(raw.URI, fmt.Errorf("%w: %v", domain.ErrExportFailed, err), summary)
			return
		}
		exported = report.Exported
		for _, f := range report.Failures {
			logger.Warn("card %s not exported: %s", f.CardID, f.Reason)
		}
	}
	summary.CardsExported += exported

	record := domain.LedgerRecord{
		Identity:      article.Identity,
		Origin:        article.Origin(),
		Title:         article.Title,
		Deck:          p.settings.Deck,
		Outcome:       outcomeFor(len(accepted), rejected),
		CardsAccepted: len(accepted),
		CardsRejected: rejected,
		ProcessedAt:   article.FetchedAt,
	}
	if err := p.ledger.MarkProcessed(ctx, record); err != nil {
		// The article was processed but cannot be durably recorded.
		// Reporting it failed (and unmarked) preserves re-run
		// idempotence at the cost of one redundant regeneration.
		p.fail(raw.URI, fmt.Errorf("%w: %v", domain.ErrLedgerWrite, err), summary)
		return
	}

	summary.ArticlesProcessed++
	p.reporter.ArticleFinished(&article, &record)
}

// dedupe evaluates every card and returns the accepted ones.
func (p *Pipeline) dedupe(ctx context.Context, cards []domain.Card, summary *driving.RunSummary) ([]domain.Card, int, error) {
	var accepted []domain.Card
	rejected := 0

	for i := range cards {
		card := &cards[i]
		if err := card.Validate(); err != nil {
			logger.Debug("dropping malformed card from generator output")
			continue
		}

		sig, err := p.builder.Build(ctx, card)
		if err != nil {
			return nil, 0, fmt.Errorf("build signature: %w", err)
		}

		decision, err := p.engine.Decide(ctx, card, sig)
		if err != nil {
			return nil, 0, err
		}
		if decision.Accepted {
			accepted = append(accepted, *card)
			summary.CardsAccepted++
			continue
		}

		rejected++
		summary.CardsRejected++
		p.reporter.CardRejected(card, decision.Match, decision.Similarity)
	}
	return accepted, rejected, nil
}

// fail records one failed article. Failures never abort the run.
func (p *Pipeline) fail(origin string, err error, summary *driving.RunSummary) {
	logger.Warn("article %s failed: %v", origin, err)
	summary.ArticlesFailed++
	p.reporter.ArticleFailed(origin, err)
}

// outcomeFor classifies how processing of an article concluded.
func outcomeFor(accepted, rejected int) domain.LedgerOutcome {
	switch {
	case accepted > 0:
		return domain.OutcomeExported
	case rejected > 0:
		return domain.OutcomeAllDuplicates
	default:
		return domain.OutcomeNoCards
	}
}

// nopReporter drops all progress events.
type nopReporter struct{}

func (nopReporter) ArticleStarted(*domain.Article)                               {}
func (nopReporter) ArticleSkipped(string, *domain.LedgerRecord)                  {}
func (nopReporter) ArticleFailed(string, error)                                  {}
func (nopReporter) CardRejected(*domain.Card, *domain.AcceptedEntry, float64)    {}
func (nopReporter) ArticleFinished(*domain.Article, *domain.LedgerRecord)        {}
