package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/at-ishikawa/pokejournal/internal/assets"
	"github.com/at-ishikawa/pokejournal/internal/journal"
	"github.com/at-ishikawa/pokejournal/internal/pdf"
)

const (
	deleteConfirmation = "Are you sure you want to delete this entry?"
	exportTitle        = "PokéJournal"
	exportFileName     = "journal.md"
)

// JournalCLI renders the journal and turns commands into journal operations.
type JournalCLI struct {
	*Terminal
	journal *journal.Journal
}

func NewJournalCLI(terminal *Terminal, j *journal.Journal) *JournalCLI {
	return &JournalCLI{
		Terminal: terminal,
		journal:  j,
	}
}

func (c *JournalCLI) Add(ctx context.Context, title, text, creatureName string) error {
	entry, err := c.journal.Create(ctx, title, text, creatureName)
	if err != nil {
		var validationErr *journal.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintln(c.stdoutWriter, color.RedString("Please fill in all fields:"))
			for _, field := range validationErr.Fields {
				_, _ = fmt.Fprintf(c.stdoutWriter, "  - %s\n", field.Message)
			}
		}
		return fmt.Errorf("journal.Create > %w", err)
	}

	_, _ = fmt.Fprintln(c.stdoutWriter, color.GreenString("Saved a new entry"))
	c.renderEntry(c.stdoutWriter, entry)
	return nil
}

func (c *JournalCLI) List(format OutputFormat) error {
	entries := c.journal.List()
	if format != OutputText {
		return writeStructured(c.stdoutWriter, format, entries)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(c.stdoutWriter, "No journal entries yet.")
		return nil
	}
	for i, entry := range entries {
		if i > 0 {
			_, _ = fmt.Fprintln(c.stdoutWriter)
		}
		c.renderEntry(c.stdoutWriter, entry)
	}
	return nil
}

// Delete removes an entry after the user confirms it. Declining is not an error.
func (c *JournalCLI) Delete(ctx context.Context, id string, assumeYes bool) error {
	entry, ok := c.journal.Get(id)
	if !ok {
		return fmt.Errorf("journal.Get(%s) > %w", id, journal.ErrEntryNotFound)
	}

	if !assumeYes {
		c.renderEntry(c.stdoutWriter, entry)
		confirmed, err := c.confirm(deleteConfirmation)
		if err != nil {
			return err
		}
		if !confirmed {
			_, _ = fmt.Fprintln(c.stdoutWriter, "Deletion cancelled.")
			return nil
		}
	}

	if err := c.journal.Delete(ctx, id); err != nil {
		return fmt.Errorf("journal.Delete(%s) > %w", id, err)
	}
	_, _ = fmt.Fprintf(c.stdoutWriter, "Deleted %s\n", c.bold.Sprint(entry.Title))
	return nil
}

type ExportOptions struct {
	TemplatePath string
	Directory    string
	PDF          bool
}

// Export writes the whole journal as markdown and optionally converts it to PDF. It returns the
// written paths.
func (c *JournalCLI) Export(options ExportOptions) ([]string, error) {
	if err := os.MkdirAll(options.Directory, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", options.Directory, err)
	}

	markdownPath := filepath.Join(options.Directory, exportFileName)
	if err := c.writeMarkdown(markdownPath, options.TemplatePath); err != nil {
		return nil, err
	}
	paths := []string{markdownPath}

	if options.PDF {
		pdfPath, err := pdf.ConvertMarkdownFile(markdownPath)
		if err != nil {
			return paths, fmt.Errorf("pdf.ConvertMarkdownFile(%s) > %w", markdownPath, err)
		}
		paths = append(paths, pdfPath)
	}

	for _, path := range paths {
		_, _ = fmt.Fprintf(c.stdoutWriter, "Exported %s\n", path)
	}
	return paths, nil
}

func (c *JournalCLI) writeMarkdown(markdownPath, templatePath string) (err error) {
	output, err := os.Create(markdownPath)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", markdownPath, err)
	}
	defer func() {
		if closeErr := output.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("output.Close() > %w", closeErr)
		}
	}()

	data := assets.JournalTemplate{
		Title:   exportTitle,
		Entries: c.journal.List(),
	}
	if err := assets.WriteJournal(output, templatePath, c.location, data); err != nil {
		return fmt.Errorf("assets.WriteJournal > %w", err)
	}
	return nil
}

func (c *JournalCLI) renderEntry(w io.Writer, entry journal.Entry) {
	_, _ = fmt.Fprintln(w, c.bold.Sprint(entry.Title))
	_, _ = fmt.Fprintln(w, c.faint.Sprint(entry.Timestamp.In(c.location).Format("Jan 2, 2006 15:04")))
	_, _ = fmt.Fprintf(w, "Pokémon: %s\n", c.italic.Sprint(entry.CreatureName))
	_, _ = fmt.Fprintln(w, entry.Text)
	_, _ = fmt.Fprintln(w, c.faint.Sprintf("id: %s", entry.ID))
}
