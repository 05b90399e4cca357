package schemafile

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"cfgfile/internal/validate"
)

// Field types understood in the "type" attribute.
const (
	TypeAny        = "any"
	TypeString     = "string"
	TypeBool       = "bool"
	TypeInt        = "int"
	TypeFloat      = "float"
	TypeHex        = "hex"
	TypeResolution = "resolution"
	TypeRegex      = "regex"
	TypeEnum       = "enum"
	TypeIntSet     = "int_set"
	TypeIntRange   = "int_range"
	TypeFloatRange = "float_range"
)

// Scalar holds a scalar from either YAML or TOML as its text, so integers
// and booleans may be written without quotes. YAML keeps the literal text
// and null becomes "". TOML hands over decoded values, so a float would
// lose its spelling (1.0 reads back as 1); TOML floats must be quoted.
type Scalar string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scalar) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", n.Line)
	}
	if n.ShortTag() == "!!null" {
		*s = ""
		return nil
	}
	*s = Scalar(n.Value)
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (s *Scalar) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		*s = Scalar(x)
	case int64:
		*s = Scalar(strconv.FormatInt(x, 10))
	case bool:
		*s = Scalar(strconv.FormatBool(x))
	case float64:
		return fmt.Errorf("float %v must be written as a quoted string to keep its text", x)
	default:
		return fmt.Errorf("expected a scalar value, got %T", v)
	}
	return nil
}

// Bound is a min or max. Bounds are compared as numbers, so unlike Scalar
// a TOML float is accepted.
type Bound string

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *Bound) UnmarshalYAML(n *yaml.Node) error {
	var s Scalar
	if err := s.UnmarshalYAML(n); err != nil {
		return err
	}
	*b = Bound(s)
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (b *Bound) UnmarshalTOML(v any) error {
	if f, ok := v.(float64); ok {
		*b = Bound(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	var s Scalar
	if err := s.UnmarshalTOML(v); err != nil {
		return err
	}
	*b = Bound(s)
	return nil
}

func (spec FieldSpec) validator() (validate.Validator, error) {
	switch spec.Type {
	case "", TypeAny, TypeString:
		return validate.Any, nil
	case TypeBool:
		return validate.Bool, nil
	case TypeInt:
		return validate.Int, nil
	case TypeFloat:
		return validate.Float, nil
	case TypeHex:
		return validate.Hex, nil
	case TypeResolution:
		return validate.Resolution, nil
	case TypeRegex:
		if spec.Pattern == "" {
			return nil, errors.New("regex type requires a pattern")
		}
		v, err := validate.CompileRegex(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		return v, nil
	case TypeEnum:
		if len(spec.Values) == 0 {
			return nil, errors.New("enum type requires values")
		}
		vals := make([]string, len(spec.Values))
		for i, v := range spec.Values {
			vals[i] = string(v)
		}
		return validate.StringSet(vals...), nil
	case TypeIntSet:
		if len(spec.Values) == 0 {
			return nil, errors.New("int_set type requires values")
		}
		vals := make([]int, len(spec.Values))
		for i, v := range spec.Values {
			n, err := strconv.Atoi(string(v))
			if err != nil {
				return nil, fmt.Errorf("int_set value %q is not an integer", v)
			}
			vals[i] = n
		}
		return validate.IntSet(vals...), nil
	case TypeIntRange:
		lo, hi, err := spec.bounds(func(s string) (float64, error) {
			n, err := strconv.Atoi(s)
			return float64(n), err
		})
		if err != nil {
			return nil, err
		}
		return validate.IntRange(int(lo), int(hi)), nil
	case TypeFloatRange:
		lo, hi, err := spec.bounds(func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		})
		if err != nil {
			return nil, err
		}
		return validate.FloatRange(lo, hi), nil
	default:
		return nil, fmt.Errorf("unknown type %q", spec.Type)
	}
}

func (spec FieldSpec) bounds(parse func(string) (float64, error)) (float64, float64, error) {
	if spec.Min == nil || spec.Max == nil {
		return 0, 0, fmt.Errorf("%s type requires min and max", spec.Type)
	}
	lo, err := parse(string(*spec.Min))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid min %q", *spec.Min)
	}
	hi, err := parse(string(*spec.Max))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid max %q", *spec.Max)
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("min %s is greater than max %s", *spec.Min, *spec.Max)
	}
	return lo, hi, nil
}
