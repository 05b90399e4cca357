package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

func newFmtCmd(provider *AppProvider) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Print a configuration file in normalized form",
		Long: heredoc.Doc(`
			Print a configuration file in normalized form: groups and keys
			sorted, one "key = value" per line, comments dropped and missing
			keys filled from their defaults. The file must pass its schema.

			Values are written unquoted, so values with leading or trailing
			spaces, or wrapped in quotes, do not survive a round trip.

			Examples:
			  cfg fmt app.cfg
			  cfg fmt --write app.cfg`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			path := args[0]

			st, _, err := app.LoadValid(path)
			if err != nil {
				return err
			}

			if !write {
				return st.Save(app.Out)
			}
			if err := st.SaveFile(app.Fs, path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Fprintf(app.Out, "Formatted %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file")

	return cmd
}
