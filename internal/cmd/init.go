package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newInitCmd(provider *AppProvider) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Create a configuration file holding every schema default",
		Long: heredoc.Doc(`
			Create a configuration file containing the default of every key
			declared in the schema. An existing file is left alone unless
			--force is given.

			Examples:
			  cfg init --schema app.schema.yaml app.cfg
			  cfg init --force app.cfg`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			path := args[0]

			exists, err := afero.Exists(app.Fs, path)
			if err != nil {
				return err
			}
			if exists && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			schema, paths, err := app.Schema(path)
			if err != nil {
				return err
			}
			st := schema.Defaults()
			if err := st.SaveFile(app.Fs, path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]interface{}{
					"file":   path,
					"schema": paths.SchemaFile,
					"values": st.Len(),
				})
			}
			fmt.Fprintf(app.Out, "%s %s with %d default value(s)\n", app.SuccessColor("Created"), path, st.Len())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
