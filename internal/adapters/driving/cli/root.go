package cli

import (
	"github.com/spf13/cobra"

	"github.com/JapanColorado/article-to-anki/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "articles-to-anki",
	Short: "Generate Anki flashcards from articles",
	Long: `Fetches articles from URLs and local files, generates cloze and
basic flashcards with an LLM, filters out duplicates of previously
accepted cards, and exports the survivors to Anki (or to text files).

Run 'articles-to-anki setup' first to create the article directory,
URL list and configuration file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runProcess,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
