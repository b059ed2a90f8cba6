// Package file writes cards to plain-text files that Anki can import.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.CardExporter = (*Exporter)(nil)

// DefaultDir is where export files are written.
const DefaultDir = "exported_cards"

// timestampLayout buckets export files by hour, so repeated runs within
// the hour append to the same files.
const timestampLayout = "2006-01-02-15"

// Config holds configuration for the file exporter.
type Config struct {
	// Dir is the output directory (default: exported_cards).
	Dir string

	// Now supplies the timestamp, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Exporter appends cards to per-kind text files.
type Exporter struct {
	dir string
	now func() time.Time
}

// NewExporter creates a file exporter.
func NewExporter(cfg Config) *Exporter {
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Exporter{dir: cfg.Dir, now: cfg.Now}
}

// Prepare creates the output directory.
func (e *Exporter) Prepare(_ context.Context) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	return nil
}

// Export appends the cards to the cloze and basic files for the current
// hour. The card line format matches Anki's semicolon-separated import,
// with the article title as the final field.
func (e *Exporter) Export(_ context.Context, cards []domain.Card, title, _ string) (*driven.ExportReport, error) {
	var cloze, basic []string
	for i := range cards {
		card := &cards[i]
		switch card.Kind {
		case domain.CardKindCloze:
			cloze = append(cloze, fmt.Sprintf("%s ; ; %s ;", card.Field("Text"), title))
		default:
			basic = append(basic, fmt.Sprintf("%s ; %s ; %s ;", card.Field("Front"), card.Field("Back"), title))
		}
	}

	timestamp := e.now().Format(timestampLayout)
	if err := e.appendLines(fmt.Sprintf("%s_cloze_cards.txt", timestamp), cloze); err != nil {
		return nil, err
	}
	if err := e.appendLines(fmt.Sprintf("%s_basic_cards.txt", timestamp), basic); err != nil {
		return nil, err
	}

	return &driven.ExportReport{Exported: len(cloze) + len(basic)}, nil
}

// appendLines appends the lines to the named file under the export dir.
// Nothing is written (and no file is created) for an empty batch.
func (e *Exporter) appendLines(name string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}

	path := filepath.Join(e.dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
