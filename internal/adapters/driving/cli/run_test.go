package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configfile "github.com/JapanColorado/article-to-anki/internal/adapters/driven/config/file"
	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

func newTestConfig(t *testing.T) *configfile.ConfigStore {
	t.Helper()
	cfg, err := configfile.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return cfg
}

func TestBuildSettings_Defaults(t *testing.T) {
	settings := buildSettings(rootCmd, newTestConfig(t))

	assert.Equal(t, domain.DefaultDeck, settings.Deck)
	assert.Equal(t, domain.BackendAuto, settings.Backend)
	assert.Equal(t, domain.DefaultSimilarityThreshold, settings.SimilarityThreshold)
	assert.Equal(t, domain.DefaultArticleDir, settings.ArticleDir)
	assert.Equal(t, domain.DefaultURLsFile, settings.URLsFile)
	assert.False(t, settings.ToFile)
	assert.NoError(t, settings.Validate())
}

func TestBuildSettings_ConfigFileApplies(t *testing.T) {
	cfg := newTestConfig(t)
	require.NoError(t, cfg.Set("deck", "Reading"))
	require.NoError(t, cfg.Set("backend", "lexical"))
	require.NoError(t, cfg.Set("similarity_threshold", 0.9))
	require.NoError(t, cfg.Set("article_dir", "papers"))

	settings := buildSettings(rootCmd, cfg)

	assert.Equal(t, "Reading", settings.Deck)
	assert.Equal(t, domain.BackendForceLexical, settings.Backend)
	assert.Equal(t, 0.9, settings.SimilarityThreshold)
	assert.Equal(t, "papers", settings.ArticleDir)
	assert.Equal(t, filepath.Join("papers", "urls.txt"), settings.URLsFile)
}

func TestBuildSettings_FlagsBeatConfig(t *testing.T) {
	cfg := newTestConfig(t)
	require.NoError(t, cfg.Set("deck", "Reading"))

	flags := rootCmd.Flags()
	require.NoError(t, flags.Set("deck", "Override"))
	require.NoError(t, flags.Set("similarity-threshold", "0.7"))
	require.NoError(t, flags.Set("process-all", "true"))
	defer func() {
		// Reset shared flag state for other tests.
		require.NoError(t, flags.Set("deck", domain.DefaultDeck))
		require.NoError(t, flags.Set("similarity-threshold", "0.85"))
		require.NoError(t, flags.Set("process-all", "false"))
	}()

	settings := buildSettings(rootCmd, cfg)

	assert.Equal(t, "Override", settings.Deck)
	assert.Equal(t, 0.7, settings.SimilarityThreshold)
	assert.True(t, settings.ProcessAll)
}

func TestReadURLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "# reading list\n" +
		"https://example.com/one\n" +
		"\n" +
		"https://example.com/two\n" +
		"# done\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	urls, err := readURLFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/one", "https://example.com/two"}, urls)
}

func TestReadURLFile_Missing(t *testing.T) {
	_, err := readURLFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestCollectArticleFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"essay.md", "notes.txt", "archive.zip", ".hidden.txt", "urls.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	files, err := collectArticleFiles(dir, filepath.Join(dir, "urls.txt"))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "essay.md"),
		filepath.Join(dir, "notes.txt"),
	}, files)
}
