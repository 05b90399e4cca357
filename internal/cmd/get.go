package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"cfgfile/internal/cfgfile"
)

func newGetCmd(provider *AppProvider) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "get <file> <group.key>",
		Short: "Get a configuration value",
		Long: heredoc.Doc(`
			Get one value from a configuration file.

			The file must pass its schema. --as converts the value: bool treats
			1, true and True as true; int and float read the leading number and
			fall back to 0.

			Examples:
			  cfg get app.cfg Window.width
			  cfg get app.cfg Window.fullscreen --as bool
			  cfg get --json app.cfg Window:title`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			group, key, err := splitKey(args[1])
			if err != nil {
				return err
			}

			st, _, err := app.LoadValid(args[0])
			if err != nil {
				return err
			}
			v, err := st.Get(group, key)
			if err != nil {
				return err
			}

			out, err := convert(v, as)
			if err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]interface{}{
					"group": group,
					"key":   key,
					"value": out,
				})
			}
			fmt.Fprintln(app.Out, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&as, "as", "string", "Convert the value: string, bool, int or float")

	return cmd
}

func convert(v cfgfile.Value, as string) (interface{}, error) {
	switch as {
	case "", "string":
		return v.String(), nil
	case "bool":
		return v.Bool(), nil
	case "int":
		return v.Int(), nil
	case "float":
		return v.Float(), nil
	default:
		return nil, fmt.Errorf("invalid --as %q (want string, bool, int or float)", as)
	}
}
