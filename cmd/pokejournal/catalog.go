package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/pokejournal/internal/cli"
)

func newCatalogCommand() *cobra.Command {
	catalogCommand := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the Pokémon catalog",
	}

	catalogCommand.AddCommand(
		newCatalogListCommand(),
		newCatalogShowCommand(),
		newCatalogBrowseCommand(),
	)
	return catalogCommand
}

func newCatalogListCommand() *cobra.Command {
	var offset int
	command := &cobra.Command{
		Use:   "list",
		Short: "Show one page of the catalog",
		Args:  cobra.NoArgs,
	}
	output := addOutputFlag(command)
	command.Flags().IntVar(&offset, "offset", 0, "catalog offset of the page")
	command.RunE = func(cmd *cobra.Command, args []string) error {
		if offset < 0 {
			return fmt.Errorf("offset must not be negative: %d", offset)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newCatalogClient(cfg)
		defer func() {
			_ = client.Close()
		}()
		return cli.NewCatalogCLI(newTerminal(cmd), client, browserOptions(cfg)).
			List(cmd.Context(), offset, cli.OutputFormat(*output))
	}
	return command
}

func newCatalogShowCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "show <name-or-id>",
		Short: "Show the details of one Pokémon",
		Args:  cobra.ExactArgs(1),
	}
	output := addOutputFlag(command)
	command.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newCatalogClient(cfg)
		defer func() {
			_ = client.Close()
		}()
		return cli.NewCatalogCLI(newTerminal(cmd), client, browserOptions(cfg)).
			Show(cmd.Context(), args[0], cli.OutputFormat(*output))
	}
	return command
}

func newCatalogBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Page through the catalog interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := newCatalogClient(cfg)
			defer func() {
				_ = client.Close()
			}()
			return cli.NewCatalogCLI(newTerminal(cmd), client, browserOptions(cfg)).Browse(cmd.Context())
		},
	}
}
