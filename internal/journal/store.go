package journal

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// DefaultFileName is the name of the journal document inside the data directory.
const DefaultFileName = "journal_entries.json"

//go:generate mockgen -source=store.go -destination=../mocks/journal/mock_store.go -package=mock_journal Store

// Store persists the complete list of journal entries.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// FileStore keeps all entries in one JSON document. Every Save rewrites the document through a
// temporary file and a rename, so readers never observe a partial write.
type FileStore struct {
	d        *diskv.Diskv
	dir      string
	fileName string

	// writeMu admits one pending write at a time.
	writeMu sync.Mutex
}

// NewFileStore creates a FileStore for dataDirectory/fileName. An empty fileName uses
// DefaultFileName.
func NewFileStore(dataDirectory, fileName string) *FileStore {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &FileStore{
		d: diskv.New(diskv.Options{
			BasePath:     dataDirectory,
			TempDir:      filepath.Join(dataDirectory, ".tmp"),
			CacheSizeMax: 0,
			PathPerm:     0755,
			FilePerm:     0644,
		}),
		dir:      dataDirectory,
		fileName: fileName,
	}
}

// Path returns the location of the journal document.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.fileName)
}

// Load returns all entries most-recent-first, whatever order the document holds them in. A
// missing document is created empty.
func (s *FileStore) Load(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !s.d.Has(s.fileName) {
		slog.Default().Debug("journal document not found, creating an empty one",
			slog.String("path", s.Path()),
		)
		if err := s.write(newDocument(nil)); err != nil {
			return nil, err
		}
		return []Entry{}, nil
	}

	data, err := s.d.Read(s.fileName)
	if err != nil {
		return nil, fmt.Errorf("%w: diskv.Read(%s) > %w", ErrStorageUnavailable, s.Path(), err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decodeDocument(%s) > %w", ErrStorageUnavailable, s.Path(), err)
	}
	if doc.Version < CurrentVersion {
		slog.Default().Info("journal document uses an older schema and will be migrated on the next save",
			slog.Int("version", doc.Version),
			slog.String("path", s.Path()),
		)
	}

	entries := doc.Entries
	sortEntries(entries)
	return entries, nil
}

// Save overwrites the document with entries, in the given order.
func (s *FileStore) Save(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(newDocument(entries))
}

func (s *FileStore) write(doc Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.d.WriteStream(s.fileName, bytes.NewReader(data), true); err != nil {
		return fmt.Errorf("%w: diskv.WriteStream(%s) > %w", ErrStorageUnavailable, s.Path(), err)
	}
	return nil
}
