package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/pokejournal/internal/catalog"
	"github.com/at-ishikawa/pokejournal/internal/cli"
	"github.com/at-ishikawa/pokejournal/internal/config"
	"github.com/at-ishikawa/pokejournal/internal/journal"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

type OutputFormat cli.OutputFormat

func (o *OutputFormat) Set(val string) error {
	format, err := cli.ParseOutputFormat(val)
	if err != nil {
		return err
	}
	*o = OutputFormat(format)
	return nil
}

func (o OutputFormat) String() string {
	return string(o)
}

func (o *OutputFormat) Type() string {
	return "format"
}

var (
	_ pflag.Value = (*OutputFormat)(nil)
)

func addOutputFlag(cmd *cobra.Command) *OutputFormat {
	output := OutputFormat(cli.OutputText)
	cmd.Flags().VarP(&output, "output", "o", fmt.Sprintf("Output format. Possible values are %v", cli.OutputFormats))
	return &output
}

func newTerminal(cmd *cobra.Command) *cli.Terminal {
	return cli.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
}

func openJournal(ctx context.Context, cfg *config.Config) (*journal.Journal, error) {
	store := journal.NewFileStore(cfg.Journal.DataDirectory, cfg.Journal.FileName)
	j, err := journal.New(store)
	if err != nil {
		return nil, fmt.Errorf("journal.New > %w", err)
	}
	if err := j.Load(ctx); err != nil {
		return nil, fmt.Errorf("journal.Load(%s) > %w", store.Path(), err)
	}
	return j, nil
}

func newCatalogClient(cfg *config.Config) *catalog.HTTPClient {
	return catalog.NewHTTPClient(catalog.Config{
		BaseURL:       cfg.Catalog.BaseURL,
		PageSize:      cfg.Catalog.PageSize,
		RetryAttempts: cfg.Catalog.RetryAttempts,
		Timeout:       cfg.Catalog.Timeout,
	})
}

func browserOptions(cfg *config.Config) catalog.BrowserOptions {
	return catalog.BrowserOptions{
		Concurrency:   cfg.Catalog.Concurrency,
		StrictDetails: cfg.Catalog.StrictDetails,
	}
}
