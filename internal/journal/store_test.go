package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Load(t *testing.T) {
	older := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		content         *string
		want            []Entry
		wantErr         error
		wantFileContent string
	}{
		{
			name:            "missing document is created empty",
			want:            []Entry{},
			wantFileContent: `{"version":1,"entries":[]}`,
		},
		{
			name: "entries are sorted most recent first",
			content: ptr(`{"version":1,"entries":[
				{"id":"a","title":"Old","text":"t","creatureName":"Pidgey","timestamp":"2025-03-01T09:00:00Z"},
				{"id":"b","title":"New","text":"t","creatureName":"Eevee","timestamp":"2025-03-02T09:00:00Z"}
			]}`),
			want: []Entry{
				{ID: "b", Title: "New", Text: "t", CreatureName: "Eevee", Timestamp: newer},
				{ID: "a", Title: "Old", Text: "t", CreatureName: "Pidgey", Timestamp: older},
			},
		},
		{
			name: "legacy array document with pokemonName",
			content: ptr(`[
				{"id":"a","title":"Old","text":"t","pokemonName":"Pidgey","timestamp":"2025-03-01T09:00:00.000Z"},
				{"id":"b","title":"New","text":"t","pokemonName":"Eevee","timestamp":"2025-03-02T09:00:00.000Z"}
			]`),
			want: []Entry{
				{ID: "b", Title: "New", Text: "t", CreatureName: "Eevee", Timestamp: newer},
				{ID: "a", Title: "Old", Text: "t", CreatureName: "Pidgey", Timestamp: older},
			},
		},
		{
			name:    "empty legacy array",
			content: ptr(`[]`),
			want:    []Entry{},
		},
		{
			name:    "broken document",
			content: ptr(`{"version":1,"entries":[`),
			wantErr: ErrStorageUnavailable,
		},
		{
			name:    "document from a newer schema",
			content: ptr(`{"version":99,"entries":[]}`),
			wantErr: ErrUnsupportedVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != nil {
				require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(*tt.content), 0644))
			}

			store := NewFileStore(dir, "")
			got, err := store.Load(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrStorageUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			if tt.wantFileContent != "" {
				content, err := os.ReadFile(store.Path())
				require.NoError(t, err)
				assert.JSONEq(t, tt.wantFileContent, string(content))
			}
		})
	}
}

func TestFileStore_SaveLoadIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, "entries.json")
	ctx := context.Background()

	entries := []Entry{
		{ID: "2", Title: "Caught one!", Text: "Near the lake", CreatureName: "Magikarp", Timestamp: time.Date(2025, 5, 2, 12, 30, 0, 123000000, time.UTC)},
		{ID: "1", Title: "First day", Text: "Grass route", CreatureName: "Rattata", Timestamp: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, store.Save(ctx, entries))
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, loaded))

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Equal(t, entries, loaded)
}

func TestFileStore_UnsortedDocumentIsStableAfterFirstSave(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, "entries.json")
	ctx := context.Background()
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"version":1,"entries":[
		{"id":"a","title":"Old","text":"t","creatureName":"Pidgey","timestamp":"2025-03-01T09:00:00Z"},
		{"id":"c","title":"Newest","text":"t","creatureName":"Snorlax","timestamp":"2025-03-03T09:00:00Z"},
		{"id":"b","title":"New","text":"t","creatureName":"Eevee","timestamp":"2025-03-02T09:00:00Z"}
	]}`), 0644))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	var ids []string
	for _, entry := range loaded {
		ids = append(ids, entry.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	require.NoError(t, store.Save(ctx, loaded))
	rewritten, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, loaded, reloaded)
	require.NoError(t, store.Save(ctx, reloaded))
	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, string(rewritten), string(after))
}

func TestFileStore_Save_MigratesLegacyDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a","title":"T","text":"x","pokemonName":"Onix","timestamp":"2025-01-01T00:00:00.000Z"}]`), 0644))

	store := NewFileStore(dir, "")
	ctx := context.Background()
	entries, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, entries))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.Equal(t, CurrentVersion, doc.Version)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "Onix", doc.Entries[0].CreatureName)
}

func TestFileStore_Unavailable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))

	store := NewFileStore(filepath.Join(blocker, "data"), "")
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	err = store.Save(ctx, []Entry{{ID: "a"}})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestFileStore_ConcurrentSavesLeaveAValidDocument(t *testing.T) {
	store := NewFileStore(t.TempDir(), "")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entries := make([]Entry, i+1)
			for j := range entries {
				entries[j] = Entry{ID: fmt.Sprintf("%d-%d", i, j), Title: "t", Text: "x", CreatureName: "Ditto"}
			}
			assert.NoError(t, store.Save(ctx, entries))
		}(i)
	}
	wg.Wait()

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestFileStore_CancelledContext(t *testing.T) {
	store := NewFileStore(t.TempDir(), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Save(ctx, nil), context.Canceled)
}

func ptr[T any](v T) *T {
	return &v
}
