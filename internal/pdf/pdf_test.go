package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMarkdownFile(t *testing.T) {
	tests := []struct {
		name       string
		setupFile  func(t *testing.T) string
		wantErrMsg string
	}{
		{
			name:       "invalid extension",
			setupFile:  func(*testing.T) string { return "journal.txt" },
			wantErrMsg: "input file must have .md extension",
		},
		{
			name:       "file not found",
			setupFile:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.md") },
			wantErrMsg: "os.ReadFile",
		},
		{
			name: "successful conversion",
			setupFile: func(t *testing.T) string {
				mdPath := filepath.Join(t.TempDir(), "journal.md")
				content := []byte("# Journal\n\n## Caught one!\n\n- Pokémon: Magikarp\n\nNear the lake\n")
				require.NoError(t, os.WriteFile(mdPath, content, 0644))
				return mdPath
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mdPath := tt.setupFile(t)

			pdfPath, err := ConvertMarkdownFile(mdPath)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, ".pdf", filepath.Ext(pdfPath))
			assert.True(t, filepath.IsAbs(pdfPath))
			info, err := os.Stat(pdfPath)
			require.NoError(t, err)
			assert.NotZero(t, info.Size())
		})
	}
}

func TestRender(t *testing.T) {
	t.Run("creates the output directory", func(t *testing.T) {
		pdfPath := filepath.Join(t.TempDir(), "exports", "nested", "journal.pdf")
		got, err := Render([]byte("# Journal\n"), pdfPath)
		require.NoError(t, err)
		assert.Equal(t, pdfPath, got)
		_, err = os.Stat(pdfPath)
		assert.NoError(t, err)
	})

	t.Run("rejects other extensions", func(t *testing.T) {
		_, err := Render([]byte("# Journal\n"), filepath.Join(t.TempDir(), "journal.md"))
		assert.ErrorContains(t, err, "output file must have .pdf extension")
	})
}
