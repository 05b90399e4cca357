package cfgfile

import (
	"regexp"
	"strconv"
	"strings"

	"cfgfile/internal/validate"
)

// Value is a read-only view of one stored raw value. The conversions are
// best effort; use the Is methods to check whether the text is well formed.
type Value struct {
	raw string
}

// String returns the raw text.
func (v Value) String() string {
	return v.raw
}

// Bool reports whether the text is "1", "true" or "True". Anything else,
// including text Bool validation would reject, is false.
func (v Value) Bool() bool {
	return v.raw == "1" || v.raw == "true" || v.raw == "True"
}

var (
	intPrefix   = regexp.MustCompile(`^[+-]?[0-9]+`)
	floatPrefix = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?`)
)

// Int parses the leading integer of the text. Text without one yields 0.
func (v Value) Int() int {
	m := intPrefix.FindString(strings.TrimLeft(v.raw, " \t\n\v\f\r"))
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m) // out of range values are clamped
	return n
}

// Float parses the leading decimal number of the text. Text without one yields 0.
func (v Value) Float() float64 {
	m := floatPrefix.FindString(strings.TrimLeft(v.raw, " \t\n\v\f\r"))
	if m == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(m, 64)
	return f
}

// IsBool reports whether the text passes validate.Bool.
func (v Value) IsBool() bool { return validate.Bool(v.raw) }

// IsInt reports whether the text passes validate.Int.
func (v Value) IsInt() bool { return validate.Int(v.raw) }

// IsFloat reports whether the text passes validate.Float.
func (v Value) IsFloat() bool { return validate.Float(v.raw) }

// IsHex reports whether the text passes validate.Hex.
func (v Value) IsHex() bool { return validate.Hex(v.raw) }

// IsResolution reports whether the text passes validate.Resolution.
func (v Value) IsResolution() bool { return validate.Resolution(v.raw) }

// IsString is always true.
func (v Value) IsString() bool { return true }
