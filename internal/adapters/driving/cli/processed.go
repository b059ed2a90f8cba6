package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/JapanColorado/article-to-anki/internal/adapters/driven/config/file"
	"github.com/JapanColorado/article-to-anki/internal/adapters/driven/storage/sqlite"
	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

var processedCmd = &cobra.Command{
	Use:   "processed",
	Short: "Inspect the processed-article ledger",
	RunE:  runProcessedList,
}

var processedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processed articles, most recent first",
	RunE:  runProcessedList,
}

var processedClearCmd = &cobra.Command{
	Use:   "clear [identity]",
	Short: "Forget a processed article so it is reprocessed next run",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcessedClear,
}

func init() {
	processedCmd.AddCommand(processedListCmd)
	processedCmd.AddCommand(processedClearCmd)
	rootCmd.AddCommand(processedCmd)
}

func openLedgerStore() (*sqlite.Store, error) {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := sqlite.NewStore(cfg.GetString("data_dir"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

func runProcessedList(cmd *cobra.Command, _ []string) error {
	store, err := openLedgerStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.LedgerStore().List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list ledger: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No processed articles.")
		return nil
	}

	for _, record := range records {
		title := record.Title
		if title == "" {
			title = record.Origin
		}
		cmd.Printf("%s  %s\n", record.ProcessedAt.Format("2006-01-02 15:04"), title)
		cmd.Printf("    identity: %s\n", record.Identity)
		cmd.Printf("    outcome:  %s (%d accepted, %d rejected)\n",
			record.Outcome, record.CardsAccepted, record.CardsRejected)
	}
	cmd.Printf("\n%d articles processed.\n", len(records))
	return nil
}

func runProcessedClear(cmd *cobra.Command, args []string) error {
	store, err := openLedgerStore()
	if err != nil {
		return err
	}
	defer store.Close()

	identity := args[0]
	if err := store.LedgerStore().Delete(cmd.Context(), identity); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no ledger record for identity %q", identity)
		}
		return fmt.Errorf("clear ledger record: %w", err)
	}
	cmd.Printf("Cleared %s; it will be reprocessed on the next run.\n", identity)
	return nil
}
