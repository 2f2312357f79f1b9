package assets

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/at-ishikawa/pokejournal/internal/journal"
)

const journalTemplateName = "journal.md.go.tmpl"

//go:embed templates/journal.md.go.tmpl
var fallbackJournalTemplate string

// JournalTemplate is the data passed to the journal export template.
type JournalTemplate struct {
	Title   string
	Entries []journal.Entry
}

func ParseJournalTemplate(templatePath string, location *time.Location) (*template.Template, error) {
	if location == nil {
		location = time.Local
	}
	funcMap := template.FuncMap{
		"join": strings.Join,
		"localTime": func(t time.Time) string {
			return t.In(location).Format("2006-01-02 15:04")
		},
	}

	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(journalTemplateName).
		Funcs(funcMap).
		Parse(fallbackJournalTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

func WriteJournal(output io.Writer, templatePath string, location *time.Location, data JournalTemplate) error {
	tmpl, err := ParseJournalTemplate(templatePath, location)
	if err != nil {
		return fmt.Errorf("ParseJournalTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
