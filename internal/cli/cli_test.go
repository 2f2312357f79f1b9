package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/pokejournal/internal/journal"
	"github.com/at-ishikawa/pokejournal/internal/testutil"
)

func newTestTerminal(t *testing.T, input string) (*Terminal, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	return NewTerminal(strings.NewReader(input), &buf).WithLocation(time.UTC), &buf
}

func newTestJournal(t *testing.T, entries []journal.Entry) (*journal.Journal, string) {
	t.Helper()
	dir := t.TempDir()
	if entries != nil {
		testutil.CreateJournalDocument(t, dir, entries)
	}

	store := journal.NewFileStore(dir, journal.DefaultFileName)
	j, err := journal.New(store,
		journal.WithIDGenerator(func() string { return "new-id" }),
		journal.WithClock(func() time.Time { return time.Date(2024, 5, 2, 7, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	require.NoError(t, j.Load(context.Background()))
	return j, dir
}

func sampleEntries() []journal.Entry {
	return []journal.Entry{
		{
			ID:           "2",
			Title:        "Caught one!",
			Text:         "Near the lake",
			CreatureName: "Magikarp",
			Timestamp:    time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:           "1",
			Title:        "First walk",
			Text:         "Saw a bird",
			CreatureName: "Pidgey",
			Timestamp:    time.Date(2024, 4, 30, 18, 5, 0, 0, time.UTC),
		},
	}
}
