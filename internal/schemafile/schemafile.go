// Package schemafile loads cfgfile schemas from declarative YAML or TOML
// documents, so a schema can live next to the configuration it checks.
//
// A document maps group names to key names to field specs:
//
//	Window:
//	  width:      {type: int_range, min: 1, max: 4096, default: "800"}
//	  fullscreen: {type: bool, default: "false", optional: true}
//
// The same shape in TOML uses one table per field ([Window.width]).
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"cfgfile/internal/cfgfile"
)

// Format identifies the encoding of a schema document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a Format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported schema file extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// FieldSpec is the declarative form of a cfgfile.Field.
type FieldSpec struct {
	Type     string   `yaml:"type" toml:"type"`
	Default  Scalar   `yaml:"default" toml:"default"`
	Optional bool     `yaml:"optional" toml:"optional"`
	Pattern  string   `yaml:"pattern" toml:"pattern"`
	Min      *Bound   `yaml:"min" toml:"min"`
	Max      *Bound   `yaml:"max" toml:"max"`
	Values   []Scalar `yaml:"values" toml:"values"`
}

// Document is a decoded schema file: group -> key -> spec.
type Document map[string]map[string]FieldSpec

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (Document, error) {
	doc := Document{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing schema: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, fmt.Errorf("parsing schema: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("parsing schema: unknown attributes: %s", strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("unknown schema format %q", format)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Load reads the schema document at path and builds a cfgfile.Schema.
func Load(fsys afero.Fs, path string) (cfgfile.Schema, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	schema, err := doc.Schema()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}

// Schema converts every spec into a cfgfile.Field. All bad specs are
// reported together in one *Error.
func (d Document) Schema() (cfgfile.Schema, error) {
	schema := make(cfgfile.Schema, len(d))
	errs := &Error{}
	for group, keys := range d {
		g := make(cfgfile.Group, len(keys))
		for key, spec := range keys {
			v, err := spec.validator()
			if err != nil {
				errs.add(group+"."+key, err.Error())
				continue
			}
			g[key] = cfgfile.Field{
				Validate: v,
				Default:  string(spec.Default),
				Optional: spec.Optional,
			}
		}
		schema[group] = g
	}
	if errs.HasProblems() {
		errs.sort()
		return nil, errs
	}
	return schema, nil
}
