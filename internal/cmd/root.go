package cmd

import (
	"io"
	"os"
	"sync"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cfgfile/internal/config"
)

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once sync.Once
	app  *App
	err  error

	// Config captured from flags before Execute()
	SchemaPath   string
	JSONOutput   bool
	NoColor      bool
	Verbose      bool
	AllowMissing bool
	Fs           afero.Fs
	Out          io.Writer
	Err          io.Writer
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	return p.app, p.err
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a test App.
func NewTestProvider(app *App) *AppProvider {
	if app.Logger == nil {
		app.Logger = zap.NewNop()
	}
	if app.Fs == nil {
		app.Fs = afero.NewMemMapFs()
	}
	return &AppProvider{
		app:        app,
		JSONOutput: app.JSON,
		Out:        app.Out,
		Err:        app.Err,
	}
}

func (p *AppProvider) init() (*App, error) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := p.Err
	if errOut == nil {
		errOut = os.Stderr
	}
	fs := p.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &App{
		Fs:           fs,
		Logger:       newLogger(errOut, p.Verbose),
		SchemaPath:   p.SchemaPath,
		AllowMissing: p.AllowMissing,
		Out:          out,
		Err:          errOut,
		JSON:         p.JSONOutput,
		NoColor:      p.NoColor,
	}, nil
}

// newLogger writes development-style log lines to w. Only warnings and
// errors are shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		Out: os.Stdout,
		Err: os.Stderr,
	}

	rootCmd := newRootCmd(provider)
	return rootCmd.Execute()
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cfg",
		Short: "Check and edit schema-validated configuration files",
		Long: heredoc.Doc(`
			cfg reads grouped key/value configuration files:

			  [Window]
			  width = 1280
			  title = "My Window"

			Every value is checked against a schema (YAML or TOML) that declares
			the allowed groups and keys, a validator for each key and its default.
			All problems in a file are reported together.

			The schema is taken from --schema, $CFG_SCHEMA, or a file named
			<config>.schema.yaml (.yml, .toml) next to the configuration file.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	env := config.FromEnv()

	// Global flags - these populate the provider config
	rootCmd.PersistentFlags().BoolVar(&provider.JSONOutput, "json", env.JSON, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&provider.SchemaPath, "schema", "s", env.SchemaPath, "Schema file (default: search next to the config file)")
	rootCmd.PersistentFlags().BoolVarP(&provider.Verbose, "verbose", "v", env.Debug, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&provider.NoColor, "no-color", env.NoColor, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&provider.AllowMissing, "allow-missing", false, "Do not treat keys filled from schema defaults as errors")

	// Register all commands
	rootCmd.AddCommand(newCheckCmd(provider))
	rootCmd.AddCommand(newGetCmd(provider))
	rootCmd.AddCommand(newSetCmd(provider))
	rootCmd.AddCommand(newListCmd(provider))
	rootCmd.AddCommand(newFmtCmd(provider))
	rootCmd.AddCommand(newInitCmd(provider))
	rootCmd.AddCommand(newWatchCmd(provider))
	rootCmd.AddCommand(newVersionCmd(provider))

	return rootCmd
}
