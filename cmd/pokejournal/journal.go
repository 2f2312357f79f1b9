package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/pokejournal/internal/cli"
)

func newJournalCommand() *cobra.Command {
	journalCommand := &cobra.Command{
		Use:   "journal",
		Short: "Write, list and delete journal entries",
	}

	journalCommand.AddCommand(
		newJournalAddCommand(),
		newJournalListCommand(),
		newJournalDeleteCommand(),
		newJournalExportCommand(),
	)
	return journalCommand
}

func newJournalAddCommand() *cobra.Command {
	var title, text, creatureName string
	command := &cobra.Command{
		Use:   "add",
		Short: "Add a journal entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			j, err := openJournal(ctx, cfg)
			if err != nil {
				return err
			}
			return cli.NewJournalCLI(newTerminal(cmd), j).Add(ctx, title, text, creatureName)
		},
	}
	flags := command.Flags()
	flags.StringVar(&title, "title", "", "entry title")
	flags.StringVar(&text, "text", "", "entry text")
	flags.StringVar(&creatureName, "creature", "", "name of the Pokémon the entry is about")
	return command
}

func newJournalListCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		Args:  cobra.NoArgs,
	}
	output := addOutputFlag(command)
	command.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		j, err := openJournal(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return cli.NewJournalCLI(newTerminal(cmd), j).List(cli.OutputFormat(*output))
	}
	return command
}

func newJournalDeleteCommand() *cobra.Command {
	var assumeYes bool
	command := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			j, err := openJournal(ctx, cfg)
			if err != nil {
				return err
			}
			return cli.NewJournalCLI(newTerminal(cmd), j).Delete(ctx, args[0], assumeYes)
		},
	}
	command.Flags().BoolVarP(&assumeYes, "yes", "y", false, "delete without confirmation")
	return command
}

func newJournalExportCommand() *cobra.Command {
	var withPDF bool
	command := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			j, err := openJournal(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if _, err := cli.NewJournalCLI(newTerminal(cmd), j).Export(cli.ExportOptions{
				TemplatePath: cfg.Templates.JournalTemplatePath(),
				Directory:    cfg.Outputs.ExportDirectory,
				PDF:          withPDF,
			}); err != nil {
				return fmt.Errorf("export > %w", err)
			}
			return nil
		},
	}
	command.Flags().BoolVar(&withPDF, "pdf", false, "also convert the export to PDF")
	return command
}
