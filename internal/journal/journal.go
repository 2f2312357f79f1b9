package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator mints entry ids.
type IDGenerator func() string

// Clock returns the current instant.
type Clock func() time.Time

// Option configures a Journal.
type Option func(*Journal)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(j *Journal) {
		j.newID = gen
	}
}

// WithClock replaces time.Now.
func WithClock(clock Clock) Option {
	return func(j *Journal) {
		j.now = clock
	}
}

// Journal owns the committed list of entries shown to the user. State only advances after the
// store accepted the new list.
type Journal struct {
	store     Store
	validator *draftValidator
	newID     IDGenerator
	now       Clock

	// changeMu serializes Create and Delete so no change is computed from a stale list.
	changeMu sync.Mutex

	mu      sync.Mutex
	entries []Entry
	loaded  bool
}

// New creates a Journal backed by store. Call Load before listing. Create and Delete load the
// store first when Load was never called.
func New(store Store, opts ...Option) (*Journal, error) {
	v, err := newDraftValidator()
	if err != nil {
		return nil, fmt.Errorf("newDraftValidator > %w", err)
	}
	j := &Journal{
		store:     store,
		validator: v,
		newID:     uuid.NewString,
		now:       time.Now,
		entries:   []Entry{},
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Load replaces the committed entries with the store's content.
func (j *Journal) Load(ctx context.Context) error {
	entries, err := j.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("store.Load > %w", err)
	}

	j.mu.Lock()
	j.entries = entries
	j.loaded = true
	j.mu.Unlock()
	return nil
}

// ensureLoaded loads the store unless Load already succeeded. Callers hold changeMu.
func (j *Journal) ensureLoaded(ctx context.Context) error {
	j.mu.Lock()
	loaded := j.loaded
	j.mu.Unlock()
	if loaded {
		return nil
	}
	return j.Load(ctx)
}

// List returns the committed entries, most-recent-first.
func (j *Journal) List() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry(nil), j.entries...)
}

// Get returns the entry with id.
func (j *Journal) Get(id string) (Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, entry := range j.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}

// Create validates the input, stores a new entry in front of the others and returns it.
func (j *Journal) Create(ctx context.Context, title, text, creatureName string) (Entry, error) {
	draft := Draft{Title: title, Text: text, CreatureName: creatureName}.Trimmed()
	if err := j.validator.check(draft); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:           j.newID(),
		Title:        draft.Title,
		Text:         draft.Text,
		CreatureName: draft.CreatureName,
		Timestamp:    j.now().UTC().Truncate(time.Millisecond),
	}

	j.changeMu.Lock()
	defer j.changeMu.Unlock()
	if err := j.ensureLoaded(ctx); err != nil {
		return Entry{}, err
	}
	j.mu.Lock()
	current := j.entries
	j.mu.Unlock()

	updated := make([]Entry, 0, len(current)+1)
	updated = append(updated, entry)
	updated = append(updated, current...)
	if err := j.store.Save(ctx, updated); err != nil {
		return Entry{}, fmt.Errorf("store.Save > %w", err)
	}

	j.mu.Lock()
	j.entries = updated
	j.mu.Unlock()

	slog.Default().Debug("journal entry created",
		slog.String("id", entry.ID),
		slog.String("creature", entry.CreatureName),
	)
	return entry, nil
}

// Delete removes the entry with id. The caller is responsible for confirming with the user.
func (j *Journal) Delete(ctx context.Context, id string) error {
	j.changeMu.Lock()
	defer j.changeMu.Unlock()
	if err := j.ensureLoaded(ctx); err != nil {
		return err
	}
	j.mu.Lock()
	current := j.entries
	j.mu.Unlock()

	updated := make([]Entry, 0, len(current))
	for _, entry := range current {
		if entry.ID != id {
			updated = append(updated, entry)
		}
	}
	if len(updated) == len(current) {
		return fmt.Errorf("id %s: %w", id, ErrEntryNotFound)
	}

	if err := j.store.Save(ctx, updated); err != nil {
		return fmt.Errorf("store.Save > %w", err)
	}

	j.mu.Lock()
	j.entries = updated
	j.mu.Unlock()

	slog.Default().Debug("journal entry deleted", slog.String("id", id))
	return nil
}
