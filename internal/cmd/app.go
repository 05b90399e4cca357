// Package cmd implements the cfg command-line interface.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/term"

	"cfgfile/internal/cfgfile"
	"cfgfile/internal/config"
	"cfgfile/internal/schemafile"
)

// App holds application state shared across commands.
type App struct {
	Fs           afero.Fs
	Logger       *zap.Logger
	SchemaPath   string // explicit schema, empty to search next to the config file
	AllowMissing bool   // fields filled from defaults are not an error
	Out          io.Writer
	Err          io.Writer
	JSON         bool // output in JSON format
	NoColor      bool
}

// Schema resolves and loads the schema for configFile.
func (a *App) Schema(configFile string) (cfgfile.Schema, config.Paths, error) {
	paths, err := config.ResolvePaths(a.Fs, configFile, a.SchemaPath)
	if err != nil {
		return nil, config.Paths{}, err
	}
	schema, err := schemafile.Load(a.Fs, paths.SchemaFile)
	if err != nil {
		return nil, config.Paths{}, err
	}
	a.Logger.Debug("loaded schema",
		zap.String("schema", paths.SchemaFile),
		zap.Int("groups", len(schema)))
	return schema, paths, nil
}

// Load loads configFile against its schema. The store is returned together
// with any *cfgfile.ParseError so callers can report it; when AllowMissing is
// set, a ParseError holding only missing fields is dropped.
func (a *App) Load(configFile string) (*cfgfile.Store, cfgfile.Schema, error) {
	schema, _, err := a.Schema(configFile)
	if err != nil {
		return nil, nil, err
	}
	st, err := cfgfile.LoadFile(a.Fs, configFile, schema, cfgfile.WithLogger(a.Logger))
	if err != nil && a.AllowMissing && onlyMissing(err) {
		err = nil
	}
	return st, schema, err
}

// LoadValid is like Load but fails on any ParseError, rendering its issues.
func (a *App) LoadValid(configFile string) (*cfgfile.Store, cfgfile.Schema, error) {
	st, schema, err := a.Load(configFile)
	if err != nil {
		var perr *cfgfile.ParseError
		if errors.As(err, &perr) {
			return nil, nil, fmt.Errorf("%s is not valid (run `cfg check %s`):\n%s", configFile, configFile, indent(perr.Error()))
		}
		return nil, nil, err
	}
	return st, schema, nil
}

func onlyMissing(err error) bool {
	var perr *cfgfile.ParseError
	return errors.As(err, &perr) && len(perr.Violations()) == 0
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

// colorEnabled reports whether Out is a terminal and color was not disabled.
func (a *App) colorEnabled() bool {
	if a.NoColor {
		return false
	}
	f, ok := a.Out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *App) paint(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if a.colorEnabled() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// SuccessColor returns s in green when writing to a terminal.
func (a *App) SuccessColor(s string) string {
	return a.paint(s, color.FgGreen)
}

// WarnColor returns s in yellow when writing to a terminal.
func (a *App) WarnColor(s string) string {
	return a.paint(s, color.FgYellow)
}

// ErrorColor returns s in bold red when writing to a terminal.
func (a *App) ErrorColor(s string) string {
	return a.paint(s, color.FgRed, color.Bold)
}

// splitKey accepts "group.key" or "group:key".
func splitKey(s string) (group, key string, err error) {
	i := strings.IndexAny(s, ".:")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("invalid key %q: want group.key", s)
	}
	return s[:i], s[i+1:], nil
}
