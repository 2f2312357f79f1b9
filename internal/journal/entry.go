// Package journal keeps the creature journal: the on-disk entry document and the controller
// that creates, lists and deletes entries.
package journal

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Entry is one user-authored journal record tied to a named creature.
type Entry struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Text         string    `json:"text" yaml:"text"`
	CreatureName string    `json:"creatureName" yaml:"creature_name"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
}

// UnmarshalJSON accepts documents written before the creature field was renamed.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var raw struct {
		plain
		PokemonName string `json:"pokemonName"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("json.Unmarshal(entry) > %w", err)
	}
	*e = Entry(raw.plain)
	if e.CreatureName == "" {
		e.CreatureName = raw.PokemonName
	}
	return nil
}

// sortEntries orders entries most-recent-first.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}
