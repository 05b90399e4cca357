package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cfgfile/internal/cfgfile"
)

func newListCmd(provider *AppProvider) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List every value of a configuration file",
		Long: heredoc.Doc(`
			List every value of a configuration file, including keys filled in
			from schema defaults. Entries are sorted by group, then key.

			Formats: table (default), yaml. --json takes precedence.

			Examples:
			  cfg list app.cfg
			  cfg list --format yaml app.cfg
			  cfg list --json app.cfg`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			st, _, err := app.LoadValid(args[0])
			if err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(st.All())
			}

			switch format {
			case "", "table":
				return writeTable(app, st)
			case "yaml":
				raw, err := yaml.Marshal(st.All())
				if err != nil {
					return fmt.Errorf("encoding yaml: %w", err)
				}
				_, err = app.Out.Write(raw)
				return err
			default:
				return fmt.Errorf("invalid --format %q (want table or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or yaml")

	return cmd
}

func writeTable(app *App, st *cfgfile.Store) error {
	if st.Len() == 0 {
		fmt.Fprintln(app.Out, "No configuration values")
		return nil
	}

	table := tablewriter.NewTable(app.Out,
		tablewriter.WithRenderer(
			renderer.NewBlueprint(tw.Rendition{Symbols: tw.NewSymbols(tw.StyleASCII)})),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithTrimSpace(tw.Off),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"GROUP", "KEY", "VALUE"})

	for _, g := range st.Groups() {
		for _, k := range st.Keys(g) {
			v, _ := st.Lookup(g, k)
			if err := table.Append([]string{g, k, v}); err != nil {
				return fmt.Errorf("failed to append row: %w", err)
			}
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
