package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/JapanColorado/article-to-anki/internal/adapters/driven/config/file"
	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the article directory, URL list and config file",
	Long: `Creates the directories and files the tool expects:

  articles/          local article files go here
  articles/urls.txt  article URLs, one per line
  ~/.articles-to-anki/config.toml

Existing files are left untouched.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	if err := os.MkdirAll(domain.DefaultArticleDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", domain.DefaultArticleDir, err)
	}
	cmd.Printf("Article directory: %s\n", domain.DefaultArticleDir)

	if _, err := os.Stat(domain.DefaultURLsFile); os.IsNotExist(err) {
		content := "# Add your URLs here, one per line.\n"
		if err := os.WriteFile(domain.DefaultURLsFile, []byte(content), 0o644); err != nil {
			return fmt.Errorf("create %s: %w", domain.DefaultURLsFile, err)
		}
		cmd.Printf("Created URL list: %s\n", domain.DefaultURLsFile)
	} else {
		cmd.Printf("URL list already exists: %s\n", domain.DefaultURLsFile)
	}

	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := seedConfig(cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	cmd.Printf("Config file: %s\n", cfg.Path())

	cmd.Println()
	cmd.Printf("Add article files to %s or URLs to %s, set OPENAI_API_KEY, then run 'articles-to-anki'.\n",
		domain.DefaultArticleDir, domain.DefaultURLsFile)
	return nil
}

// seedConfig writes default values for keys not already set, so the
// config file documents what can be tuned.
func seedConfig(cfg *configfile.ConfigStore) error {
	defaults := map[string]any{
		"deck":                 domain.DefaultDeck,
		"backend":              domain.BackendAuto.String(),
		"similarity_threshold": domain.DefaultSimilarityThreshold,
		"embedding.provider":   "ollama",
	}
	for key, value := range defaults {
		if _, ok := cfg.Get(key); ok {
			continue
		}
		if err := cfg.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}
