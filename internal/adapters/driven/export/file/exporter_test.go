package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
}

func TestExporter_WritesPerKindFiles(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(Config{Dir: dir, Now: fixedClock})
	require.NoError(t, e.Prepare(context.Background()))

	cards := []domain.Card{
		{
			Kind:   domain.CardKindCloze,
			Fields: []domain.CardField{{Name: "Text", Value: "{{c1::Paris}} is the capital of France"}},
		},
		{
			Kind: domain.CardKindBasic,
			Fields: []domain.CardField{
				{Name: "Front", Value: "Capital of France?"},
				{Name: "Back", Value: "Paris"},
			},
		},
	}

	report, err := e.Export(context.Background(), cards, "Geography Notes", "Default")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Exported)
	assert.Empty(t, report.Failures)

	clozeBody, err := os.ReadFile(filepath.Join(dir, "2025-06-01-14_cloze_cards.txt"))
	require.NoError(t, err)
	assert.Equal(t, "{{c1::Paris}} is the capital of France ; ; Geography Notes ;\n", string(clozeBody))

	basicBody, err := os.ReadFile(filepath.Join(dir, "2025-06-01-14_basic_cards.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Capital of France? ; Paris ; Geography Notes ;\n", string(basicBody))
}

func TestExporter_AppendsAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(Config{Dir: dir, Now: fixedClock})
	require.NoError(t, e.Prepare(context.Background()))

	card := []domain.Card{{
		Kind: domain.CardKindBasic,
		Fields: []domain.CardField{
			{Name: "Front", Value: "Q"},
			{Name: "Back", Value: "A"},
		},
	}}

	_, err := e.Export(context.Background(), card, "First", "Default")
	require.NoError(t, err)
	_, err = e.Export(context.Background(), card, "Second", "Default")
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "2025-06-01-14_basic_cards.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Q ; A ; First ;\nQ ; A ; Second ;\n", string(body))
}

func TestExporter_EmptyBatchCreatesNoFiles(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(Config{Dir: dir, Now: fixedClock})
	require.NoError(t, e.Prepare(context.Background()))

	report, err := e.Export(context.Background(), nil, "Title", "Default")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Exported)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
