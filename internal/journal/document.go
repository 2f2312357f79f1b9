package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// CurrentVersion is the schema version written by this program.
const CurrentVersion = 1

// ErrUnsupportedVersion is returned for documents written by a newer schema.
var ErrUnsupportedVersion = errors.New("unsupported journal document version")

// Document is the persisted envelope around all journal entries.
type Document struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

func newDocument(entries []Entry) Document {
	if entries == nil {
		entries = []Entry{}
	}
	return Document{
		Version: CurrentVersion,
		Entries: entries,
	}
}

// decodeDocument reads either the versioned envelope or a legacy document whose top-level
// value is the bare entry array. Legacy documents report version 0.
func decodeDocument(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return newDocument(nil), nil
	}

	if trimmed[0] == '[' {
		var entries []Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return Document{}, fmt.Errorf("json.Unmarshal(legacy entries) > %w", err)
		}
		if entries == nil {
			entries = []Entry{}
		}
		return Document{Version: 0, Entries: entries}, nil
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, fmt.Errorf("json.Unmarshal(document) > %w", err)
	}
	if doc.Version > CurrentVersion {
		return Document{}, fmt.Errorf("version %d: %w", doc.Version, ErrUnsupportedVersion)
	}
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}
	return doc, nil
}

func encodeDocument(doc Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(document) > %w", err)
	}
	return data, nil
}
