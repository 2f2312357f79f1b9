package journal

import (
	"errors"
	"strings"
)

var (
	// ErrStorageUnavailable is wrapped by every failure to read or write the journal document.
	ErrStorageUnavailable = errors.New("journal storage unavailable")
	// ErrEntryNotFound is returned when deleting an id that is not in the journal.
	ErrEntryNotFound = errors.New("journal entry not found")
)

// FieldError describes one rejected user field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned by Create when user input is rejected. Storage is never touched.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		messages = append(messages, field.Message)
	}
	return "invalid journal entry: " + strings.Join(messages, "; ")
}
