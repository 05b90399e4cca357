// Package config resolves the cfg tool's own settings: environment
// overrides and the location of the schema for a configuration file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// Settings are the tool options that may come from the environment.
// Command-line flags take precedence over every field.
type Settings struct {
	SchemaPath string
	JSON       bool
	NoColor    bool
	Debug      bool
}

// SchemaSuffixes are tried, in order, next to a config file when no schema
// path was given: app.cfg -> app.cfg.schema.yaml, app.schema.yaml, ...
var SchemaSuffixes = []string{".schema.yaml", ".schema.yml", ".schema.toml"}

// Paths captures resolved locations for one invocation.
type Paths struct {
	ConfigFile string // the configuration file being operated on
	SchemaFile string // the schema used to load it
}

// ResolvePaths finds the schema for configFile. An explicit schema path is
// used as is; otherwise the SchemaSuffixes are tried next to the file, first
// appended to the full name and then replacing its extension.
func ResolvePaths(fsys afero.Fs, configFile, schemaPath string) (Paths, error) {
	p := Paths{ConfigFile: configFile}
	if schemaPath != "" {
		p.SchemaFile = schemaPath
		return p, nil
	}

	candidates := make([]string, 0, 2*len(SchemaSuffixes))
	base := strings.TrimSuffix(configFile, extension(configFile))
	for _, suffix := range SchemaSuffixes {
		candidates = append(candidates, configFile+suffix)
	}
	if base != configFile {
		for _, suffix := range SchemaSuffixes {
			candidates = append(candidates, base+suffix)
		}
	}

	for _, c := range candidates {
		ok, err := afero.Exists(fsys, c)
		if err != nil {
			return Paths{}, fmt.Errorf("checking schema %s: %w", c, err)
		}
		if ok {
			p.SchemaFile = c
			return p, nil
		}
	}
	return Paths{}, fmt.Errorf("no schema given and none found next to %s (tried %s); use --schema or %s",
		configFile, strings.Join(candidates, ", "), EnvSchema)
}

// extension is filepath.Ext without treating a leading dot as an extension.
func extension(path string) string {
	i := strings.LastIndexAny(path, "./\\")
	if i <= 0 || path[i] != '.' || path[i-1] == '/' || path[i-1] == '\\' {
		return ""
	}
	return path[i:]
}
