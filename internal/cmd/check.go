package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"cfgfile/internal/cfgfile"
)

// IssueJSON is the JSON form of one cfgfile.Issue.
type IssueJSON struct {
	Line    int    `json:"line,omitempty"`
	Kind    string `json:"kind"`
	Group   string `json:"group,omitempty"`
	Key     string `json:"key,omitempty"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// CheckJSON is the JSON output of cfg check.
type CheckJSON struct {
	File   string      `json:"file"`
	Schema string      `json:"schema"`
	Valid  bool        `json:"valid"`
	Issues []IssueJSON `json:"issues"`
}

func toIssueJSON(is cfgfile.Issue) IssueJSON {
	return IssueJSON{
		Line:    is.Line,
		Kind:    is.Kind.String(),
		Group:   is.Group,
		Key:     is.Key,
		Value:   is.Value,
		Message: is.String(),
	}
}

func newCheckCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a configuration file against its schema",
		Long: heredoc.Doc(`
			Validate a configuration file against its schema.

			Every problem is listed: unknown groups, unknown keys, values that
			fail their validator, and schema keys missing from the file. Keys
			missing from the file are reported even though they receive their
			default, unless the schema marks them optional or --allow-missing
			is given.

			Examples:
			  cfg check app.cfg
			  cfg check --schema app.schema.yaml app.cfg
			  cfg check --json app.cfg`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			path := args[0]

			schema, paths, err := app.Schema(path)
			if err != nil {
				return err
			}

			_, loadErr := cfgfile.LoadFile(app.Fs, path, schema, cfgfile.WithLogger(app.Logger))
			var perr *cfgfile.ParseError
			if loadErr != nil && !errors.As(loadErr, &perr) {
				return loadErr
			}

			var issues []cfgfile.Issue
			if perr != nil {
				issues = perr.Issues
				if app.AllowMissing {
					issues = perr.Violations()
				}
			}

			if app.JSON {
				result := CheckJSON{
					File:   path,
					Schema: paths.SchemaFile,
					Valid:  len(issues) == 0,
					Issues: make([]IssueJSON, 0, len(issues)),
				}
				for _, is := range issues {
					result.Issues = append(result.Issues, toIssueJSON(is))
				}
				if err := json.NewEncoder(app.Out).Encode(result); err != nil {
					return err
				}
			} else {
				printIssues(app, path, issues)
			}

			if len(issues) > 0 {
				return fmt.Errorf("%s: %d problem(s) found", path, len(issues))
			}
			return nil
		},
	}

	return cmd
}

func printIssues(app *App, path string, issues []cfgfile.Issue) {
	if len(issues) == 0 {
		fmt.Fprintf(app.Out, "%s %s\n", app.SuccessColor("ok"), path)
		return
	}
	for _, is := range issues {
		label := app.ErrorColor("error")
		if is.Kind == cfgfile.MissingValue {
			label = app.WarnColor("missing")
		}
		fmt.Fprintf(app.Out, "%s: %s: %s\n", path, label, is)
	}
}
