package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"cfgfile/internal/cfgfile"
	"cfgfile/internal/watch"
)

func newWatchCmd(provider *AppProvider) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-check a configuration file whenever it changes",
		Long: heredoc.Doc(`
			Check a configuration file, then check it again every time it is
			written, until interrupted. The schema is read once at start.

			Examples:
			  cfg watch app.cfg
			  cfg watch --debounce 1s --json app.cfg`),
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			w := watch.New(path,
				func() (*cfgfile.Store, error) {
					return cfgfile.LoadFile(app.Fs, path, schema, cfgfile.WithLogger(app.Logger))
				},
				watch.WithDebounce(debounce),
				watch.WithLogger(app.Logger),
				watch.WithInitialLoad(),
			)
			return w.Run(ctx, func(r watch.Result) {
				reportReload(app, path, paths.SchemaFile, r)
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Wait this long after the last change before checking")

	return cmd
}

func reportReload(app *App, path, schemaPath string, r watch.Result) {
	var issues []cfgfile.Issue
	var perr *cfgfile.ParseError
	switch {
	case r.Err == nil:
	case errors.As(r.Err, &perr):
		issues = perr.Issues
		if app.AllowMissing {
			issues = perr.Violations()
		}
	default:
		if app.JSON {
			json.NewEncoder(app.Out).Encode(map[string]string{"file": path, "error": r.Err.Error()})
			return
		}
		fmt.Fprintf(app.Out, "%s: %s: %v\n", path, app.ErrorColor("error"), r.Err)
		return
	}

	if app.JSON {
		result := CheckJSON{
			File:   path,
			Schema: schemaPath,
			Valid:  len(issues) == 0,
			Issues: make([]IssueJSON, 0, len(issues)),
		}
		for _, is := range issues {
			result.Issues = append(result.Issues, toIssueJSON(is))
		}
		json.NewEncoder(app.Out).Encode(result)
		return
	}
	printIssues(app, path, issues)
}
