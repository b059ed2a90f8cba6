package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/JapanColorado/article-to-anki/internal/adapters/driven/config/file"
	ollamaembed "github.com/JapanColorado/article-to-anki/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/JapanColorado/article-to-anki/internal/adapters/driven/embedding/openai"
	"github.com/JapanColorado/article-to-anki/internal/adapters/driven/export/ankiconnect"
	exportfile "github.com/JapanColorado/article-to-anki/internal/adapters/driven/export/file"
	"github.com/JapanColorado/article-to-anki/internal/adapters/driven/fetch/filesystem"
	"github.com/JapanColorado/article-to-anki/internal/adapters/driven/fetch/web"
	openaillm "github.com/JapanColorado/article-to-anki/internal/adapters/driven/llm/openai"
	"github.com/JapanColorado/article-to-anki/internal/adapters/driven/storage/sqlite"
	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
	"github.com/JapanColorado/article-to-anki/internal/core/services"
	"github.com/JapanColorado/article-to-anki/internal/logger"
	"github.com/JapanColorado/article-to-anki/internal/normalisers"
)

var (
	flagDeck            string
	flagUseCache        bool
	flagToFile          bool
	flagCustomPrompt    string
	flagAllowDuplicates bool
	flagProcessAll      bool
	flagThreshold       float64
	flagURLFiles        []string
	flagBackend         string
	flagArticleDir      string
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagDeck, "deck", domain.DefaultDeck, "Anki deck to export cards to")
	flags.BoolVar(&flagUseCache, "use-cache", false, "reuse cached content for URLs")
	flags.BoolVar(&flagToFile, "to-file", false, "export cards to text files instead of Anki")
	flags.StringVar(&flagCustomPrompt, "custom-prompt", "", "extra instructions for card generation")
	flags.BoolVar(&flagAllowDuplicates, "allow-duplicates", false, "accept cards even when a near-duplicate exists")
	flags.BoolVar(&flagProcessAll, "process-all", false, "reprocess articles already marked as processed")
	flags.Float64Var(&flagThreshold, "similarity-threshold", domain.DefaultSimilarityThreshold, "duplicate rejection threshold (0.0-1.0)")
	flags.StringSliceVar(&flagURLFiles, "url-files", nil, "additional URL list files (one URL per line, # for comments)")
	flags.StringVar(&flagBackend, "backend", "", "signature backend: auto, lexical or semantic")
	flags.StringVar(&flagArticleDir, "article-dir", "", "directory holding local article files")
}

func runProcess(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	settings := buildSettings(cmd, cfg)
	if err := settings.Validate(); err != nil {
		return err
	}

	if _, err := os.Stat(settings.ArticleDir); err != nil {
		return fmt.Errorf("article directory %q not found; run 'articles-to-anki setup' first", settings.ArticleDir)
	}

	urls, files, err := collectSources(cmd, settings)
	if err != nil {
		return err
	}
	if len(urls) == 0 && len(files) == 0 {
		cmd.Printf("No URLs or local files found in %s or %s.\n", settings.URLsFile, settings.ArticleDir)
		cmd.Printf("Add URLs to %s or article files to %s, then run again.\n", settings.URLsFile, settings.ArticleDir)
		return nil
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = cfg.GetString("openai.api_key")
	}
	if apiKey == "" {
		return errors.New("OPENAI_API_KEY must be set in the environment or openai.api_key in the config file")
	}

	store, err := sqlite.NewStore(cfg.GetString("data_dir"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	embedder := buildEmbedder(cfg, settings.Backend, apiKey)
	if embedder != nil {
		defer embedder.Close()
	}

	builder, err := services.NewSignatureBuilder(ctx, settings.Backend, embedder)
	if err != nil {
		return err
	}

	index := services.NewSimilarityIndex(builder.Backend(), store.AcceptedCardStore())
	if err := index.Load(ctx); err != nil {
		return fmt.Errorf("load similarity index: %w", err)
	}
	logger.Debug("Similarity index pre-seeded with %d entries (%s backend)", index.Len(), builder.Backend())

	engine := services.NewDedupeEngine(index, settings.SimilarityThreshold, settings.AllowDuplicates)

	generator, err := openaillm.NewGenerator(openaillm.Config{
		APIKey:  apiKey,
		BaseURL: cfg.GetString("openai.base_url"),
		Model:   cfg.GetString("openai.model"),
	})
	if err != nil {
		return fmt.Errorf("configure generator: %w", err)
	}

	var exporter driven.CardExporter
	if settings.ToFile {
		exporter = exportfile.NewExporter(exportfile.Config{Dir: cfg.GetString("export.dir")})
	} else {
		exporter = ankiconnect.NewExporter(ankiconnect.Config{BaseURL: cfg.GetString("anki.url")})
	}

	webFetcher := web.NewFetcher(web.Config{
		UseCache: settings.UseCache,
		CacheDir: cfg.GetString("cache.dir"),
	})

	reporter := newColorReporter(cmd.OutOrStdout())

	pipeline := services.NewPipeline(
		webFetcher,
		filesystem.NewFetcher(),
		normalisers.Defaults(),
		generator,
		exporter,
		store.LedgerStore(),
		builder,
		engine,
		settings,
		reporter,
	)

	summary, err := pipeline.Run(ctx, urls, files)
	if summary != nil {
		reporter.PrintSummary(summary)
	}
	return err
}

// buildSettings merges config file values and command line flags.
// Flags win when explicitly set.
func buildSettings(cmd *cobra.Command, cfg driven.ConfigStore) domain.Settings {
	settings := domain.DefaultSettings()

	if deck := cfg.GetString("deck"); deck != "" {
		settings.Deck = deck
	}
	if backend := cfg.GetString("backend"); backend != "" {
		settings.Backend = domain.BackendSelection(backend)
	}
	if threshold := cfg.GetFloat("similarity_threshold"); threshold != 0 {
		settings.SimilarityThreshold = threshold
	}
	if dir := cfg.GetString("article_dir"); dir != "" {
		settings.ArticleDir = dir
		settings.URLsFile = filepath.Join(dir, "urls.txt")
	}
	if urlsFile := cfg.GetString("urls_file"); urlsFile != "" {
		settings.URLsFile = urlsFile
	}
	if cfg.GetBool("export.to_file") {
		settings.ToFile = true
	}
	if cfg.GetBool("cache.enabled") {
		settings.UseCache = true
	}

	flags := cmd.Flags()
	if flags.Changed("deck") {
		settings.Deck = flagDeck
	}
	if flags.Changed("backend") {
		settings.Backend = domain.BackendSelection(flagBackend)
	}
	if flags.Changed("similarity-threshold") {
		settings.SimilarityThreshold = flagThreshold
	}
	if flags.Changed("article-dir") {
		settings.ArticleDir = flagArticleDir
		settings.URLsFile = filepath.Join(flagArticleDir, "urls.txt")
	}
	if flags.Changed("to-file") {
		settings.ToFile = flagToFile
	}
	if flags.Changed("use-cache") {
		settings.UseCache = flagUseCache
	}

	settings.CustomPrompt = flagCustomPrompt
	settings.AllowDuplicates = flagAllowDuplicates
	settings.ProcessAll = flagProcessAll
	settings.ExtraURLFiles = flagURLFiles

	return settings
}

// buildEmbedder constructs the embedding service named in the config.
// Returns nil under a forced lexical backend or an unknown provider;
// the signature builder treats nil as "semantic unavailable".
func buildEmbedder(cfg driven.ConfigStore, selection domain.BackendSelection, apiKey string) driven.EmbeddingService {
	if selection == domain.BackendForceLexical {
		return nil
	}

	provider := cfg.GetString("embedding.provider")
	if provider == "" {
		provider = "ollama"
	}

	switch provider {
	case "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.GetString("embedding.base_url"),
			Model:   cfg.GetString("embedding.model"),
		})
	case "openai":
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString("embedding.base_url"),
			Model:   cfg.GetString("embedding.model"),
		})
		if err != nil {
			logger.Warn("embedding provider misconfigured: %v", err)
			return nil
		}
		return svc
	default:
		logger.Warn("unknown embedding provider %q; semantic backend unavailable", provider)
		return nil
	}
}

// collectSources gathers URLs from the URL list files and local article
// files from the article directory.
func collectSources(cmd *cobra.Command, settings domain.Settings) (urls, files []string, err error) {
	urls, err = readURLFile(settings.URLsFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("read %s: %w", settings.URLsFile, err)
		}
		cmd.Printf("URL file %s not found.\n", settings.URLsFile)
	}

	for _, extra := range settings.ExtraURLFiles {
		extraURLs, err := readURLFile(extra)
		if err != nil {
			logger.Warn("URL file %s skipped: %v", extra, err)
			continue
		}
		urls = append(urls, extraURLs...)
	}

	files, err = collectArticleFiles(settings.ArticleDir, settings.URLsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", settings.ArticleDir, err)
	}
	return urls, files, nil
}

// readURLFile reads one URL per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

// collectArticleFiles lists supported article files in dir, skipping
// hidden files and the URL list itself.
func collectArticleFiles(dir, urlsFile string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	urlsBase := filepath.Base(urlsFile)
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || name == urlsBase {
			continue
		}
		if !filesystem.SupportedFile(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}
