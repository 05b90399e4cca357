package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"cfgfile/internal/cfgfile"
)

func newSetCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <file> <group.key> <value>",
		Short: "Set a configuration value",
		Long: heredoc.Doc(`
			Set one value in a configuration file.

			The value is checked with the key's validator before anything is
			written. Values the file format cannot hold unchanged are refused:
			line breaks, leading or trailing blanks, and values enclosed in a
			pair of matching quotes. The file is rewritten in normalized form:
			groups and keys sorted, missing keys filled from their defaults.

			Examples:
			  cfg set app.cfg Window.width 1920
			  cfg set app.cfg Display.size 1280x720`),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			path, value := args[0], args[2]
			group, key, err := splitKey(args[1])
			if err != nil {
				return err
			}

			st, schema, err := app.LoadValid(path)
			if err != nil {
				return err
			}
			if err := schema.Check(group, key, value); err != nil {
				return fmt.Errorf("not setting %s.%s: %w", group, key, err)
			}
			if err := cfgfile.CheckSaveable(value); err != nil {
				return fmt.Errorf("not setting %s.%s: %w", group, key, err)
			}

			st.Set(group, key, value)
			if err := st.SaveFile(app.Fs, path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]string{
					"group": group,
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(app.Out, "Set %s.%s = %s\n", group, key, value)
			return nil
		},
	}

	return cmd
}
