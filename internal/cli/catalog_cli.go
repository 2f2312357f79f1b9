package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/at-ishikawa/pokejournal/internal/catalog"
)

// CatalogCLI shows catalog pages and details.
type CatalogCLI struct {
	*Terminal
	client  catalog.Client
	options catalog.BrowserOptions
}

func NewCatalogCLI(terminal *Terminal, client catalog.Client, options catalog.BrowserOptions) *CatalogCLI {
	return &CatalogCLI{
		Terminal: terminal,
		client:   client,
		options:  options,
	}
}

type catalogItemOutput struct {
	ID     int             `json:"id" yaml:"id"`
	Name   string          `json:"name" yaml:"name"`
	URL    string          `json:"url" yaml:"url"`
	Detail *catalog.Detail `json:"detail,omitempty" yaml:"detail,omitempty"`
	Error  string          `json:"error,omitempty" yaml:"error,omitempty"`
}

type catalogPageOutput struct {
	Index       int                 `json:"index" yaml:"index"`
	Count       int                 `json:"count" yaml:"count"`
	HasNext     bool                `json:"hasNext" yaml:"has_next"`
	HasPrevious bool                `json:"hasPrevious" yaml:"has_previous"`
	Items       []catalogItemOutput `json:"items" yaml:"items"`
}

func newCatalogPageOutput(view *catalog.PageView) catalogPageOutput {
	output := catalogPageOutput{
		Index:       view.Index,
		Count:       view.Count,
		HasNext:     view.HasNext,
		HasPrevious: view.HasPrevious,
		Items:       make([]catalogItemOutput, 0, len(view.Results)),
	}
	for _, result := range view.Results {
		item := catalogItemOutput{
			ID:     result.ID,
			Name:   result.Item.Name,
			URL:    result.Item.URL,
			Detail: result.Detail,
		}
		if result.Err != nil {
			item.Error = result.Err.Error()
		}
		output.Items = append(output.Items, item)
	}
	return output
}

// List shows the page starting at offset.
func (c *CatalogCLI) List(ctx context.Context, offset int, format OutputFormat) error {
	options := c.options
	options.StartOffset = offset
	browser := catalog.NewBrowser(c.client, options)

	view, err := browser.Next(ctx)
	if err != nil {
		return fmt.Errorf("browser.Next > %w", err)
	}
	if format != OutputText {
		return writeStructured(c.stdoutWriter, format, newCatalogPageOutput(view))
	}
	c.renderPage(view, offset)
	return nil
}

func (c *CatalogCLI) Show(ctx context.Context, ref string, format OutputFormat) error {
	detail, err := c.client.FetchDetail(ctx, ref)
	if err != nil {
		return fmt.Errorf("client.FetchDetail(%s) > %w", ref, err)
	}
	if format != OutputText {
		return writeStructured(c.stdoutWriter, format, detail)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(c.bold.Sprint("ID"), detail.ID)
	tbl.AddRow(c.bold.Sprint("Name"), detail.Name)
	tbl.AddRow(c.bold.Sprint("Types"), strings.Join(detail.Types, ", "))
	tbl.AddRow(c.bold.Sprint("Abilities"), strings.Join(detail.Abilities, ", "))
	tbl.AddRow(c.bold.Sprint("Sprite"), spriteOrDash(detail.SpriteURL))
	_, _ = fmt.Fprintln(c.stdoutWriter, tbl)
	return nil
}

// Browse starts an interactive pager over the catalog.
func (c *CatalogCLI) Browse(ctx context.Context) error {
	session := &browseSession{
		CatalogCLI: c,
		browser:    catalog.NewBrowser(c.client, c.options),
	}
	return c.Run(ctx, session)
}

func (c *CatalogCLI) renderPage(view *catalog.PageView, offset int) {
	first := offset + 1
	if len(view.Results) > 0 {
		first = view.Results[0].ID
	}
	_, _ = fmt.Fprintln(c.stdoutWriter, c.bold.Sprintf("Page %d (%d items from #%d, %d in total)",
		view.Index+1, len(view.Results), first, view.Count))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("#", "NAME", "TYPES", "SPRITE")
	for _, result := range view.Results {
		if result.Err != nil {
			tbl.AddRow(result.ID, result.Item.Name, "failed to load", "-")
			continue
		}
		tbl.AddRow(result.ID, result.Item.Name, strings.Join(result.Detail.Types, ", "), spriteOrDash(result.Detail.SpriteURL))
	}
	_, _ = fmt.Fprintln(c.stdoutWriter, tbl)

	if failed := view.Failed(); failed > 0 {
		_, _ = fmt.Fprintln(c.stdoutWriter, color.YellowString("%d item(s) could not be loaded. Press r to retry.", failed))
	}
}

func spriteOrDash(url string) string {
	if url == "" {
		return "-"
	}
	return url
}

type browseSession struct {
	*CatalogCLI
	browser *catalog.Browser
	started bool
}

func (s *browseSession) Session(ctx context.Context) error {
	if !s.started {
		s.started = true
		return s.navigate(s.browser.Next(ctx))
	}

	_, _ = fmt.Fprint(s.stdoutWriter, s.controls())
	command, err := s.readLine()
	if err != nil {
		return err
	}

	switch strings.ToLower(command) {
	case "n", "next":
		return s.navigate(s.browser.Next(ctx))
	case "p", "prev", "previous":
		return s.navigate(s.browser.Previous())
	case "r", "reload":
		return s.navigate(s.browser.Reload(ctx))
	case "q", "quit":
		return errEnd
	case "":
		return nil
	}
	_, _ = fmt.Fprintf(s.stdoutWriter, "Unknown command %q\n", command)
	return nil
}

// controls lists the commands available on the visible page. Moving past either end is not
// offered.
func (s *browseSession) controls() string {
	var controls []string
	if s.browser.HasPrevious() {
		controls = append(controls, "[p]revious")
	}
	if s.browser.HasNext() {
		controls = append(controls, "[n]ext")
	}
	controls = append(controls, "[r]eload", "[q]uit")
	return strings.Join(controls, " ") + ": "
}

func (s *browseSession) navigate(view *catalog.PageView, err error) error {
	switch {
	case err == nil:
		s.renderPage(view, 0)
		return nil
	case errors.Is(err, catalog.ErrNoMorePages):
		_, _ = fmt.Fprintln(s.stdoutWriter, "Already on the last page.")
		return nil
	case errors.Is(err, catalog.ErrNoPreviousPage):
		_, _ = fmt.Fprintln(s.stdoutWriter, "Already on the first page.")
		return nil
	case errors.Is(err, catalog.ErrNetwork), errors.Is(err, catalog.ErrStale):
		_, _ = fmt.Fprintln(s.stdoutWriter, color.RedString("Failed to load the catalog: %v", err))
		return nil
	}
	return err
}
