// Package testutil provides shared test helpers for config files, journal documents and a fake
// catalog API.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/at-ishikawa/pokejournal/internal/journal"
	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file pointing the journal into tmpDir and the catalog
// to catalogURL. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, catalogURL string) string {
	t.Helper()

	dirs := []string{"journal", "exports", "templates"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`journal:
  data_directory: %s
catalog:
  base_url: %s
  page_size: 3
  timeout: 2s
templates:
  markdown_directory: %s
outputs:
  export_directory: %s
`,
		filepath.Join(tmpDir, "journal"),
		catalogURL,
		filepath.Join(tmpDir, "templates"),
		filepath.Join(tmpDir, "exports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// JournalOption configures how CreateJournalDocument writes the document.
type JournalOption func(*journalDocumentConfig)

type journalDocumentConfig struct {
	fileName string
	legacy   bool
}

// WithJournalFileName writes the document under a different name.
func WithJournalFileName(name string) JournalOption {
	return func(cfg *journalDocumentConfig) {
		cfg.fileName = name
	}
}

// WithLegacyArray writes the entries as a bare top-level array without the version envelope.
func WithLegacyArray() JournalOption {
	return func(cfg *journalDocumentConfig) {
		cfg.legacy = true
	}
}

// CreateJournalDocument writes entries into dir as a journal document and returns its path.
func CreateJournalDocument(t *testing.T, dir string, entries []journal.Entry, opts ...JournalOption) string {
	t.Helper()

	cfg := journalDocumentConfig{fileName: journal.DefaultFileName}
	for _, opt := range opts {
		opt(&cfg)
	}

	var value any = journal.Document{Version: journal.CurrentVersion, Entries: entries}
	if cfg.legacy {
		value = entries
	}
	content, err := json.Marshal(value)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, cfg.fileName)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}
