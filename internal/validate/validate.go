// Package validate provides text predicates used to check configuration values.
//
// A Validator is a pure function over the raw text of a value. The fixed checks
// (Bool, Int, Float, Hex, Resolution, Any) are plain functions; the parameterized
// ones (Regex, IntSet, IntRange, FloatRange, StringSet) are factories that
// capture their arguments and return a Validator. Nothing here keeps state
// beyond those captured arguments, so validators are safe to share.
package validate

import (
	"regexp"
	"strconv"

	"github.com/samber/lo"
)

// Validator reports whether value is well formed for a field.
type Validator func(value string) bool

var (
	intPattern   = regexp.MustCompile(`^-?[1-9][0-9]*$`)
	floatPattern = regexp.MustCompile(`^-?[1-9][0-9]*(\.[0-9]*)?$`)
	hexPattern   = regexp.MustCompile(`^[A-Fa-f0-9]+$`)
)

// boolLiterals are the only spellings Bool accepts.
var boolLiterals = lo.Keyify([]string{"1", "0", "true", "True", "false", "False"})

// Bool accepts 1, 0, true, True, false and False.
func Bool(value string) bool {
	_, ok := boolLiterals[value]
	return ok
}

// Int accepts an optional minus sign followed by digits with a non-zero
// leading digit. "0" and "007" are rejected.
func Int(value string) bool {
	return intPattern.MatchString(value)
}

// Float accepts the Int form optionally followed by a '.' and digits.
func Float(value string) bool {
	return floatPattern.MatchString(value)
}

// Hex accepts one or more hexadecimal digits of either case.
func Hex(value string) bool {
	return hexPattern.MatchString(value)
}

// Any accepts every value. It is used for free-form strings.
func Any(string) bool {
	return true
}

// CompileRegex returns a Validator that matches the whole value against
// pattern, or an error if pattern does not compile.
func CompileRegex(pattern string) (Validator, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, err
	}
	return re.MatchString, nil
}

// Regex is like CompileRegex but never fails: an invalid pattern yields a
// Validator that rejects every value.
func Regex(pattern string) Validator {
	v, err := CompileRegex(pattern)
	if err != nil {
		return func(string) bool { return false }
	}
	return v
}

// IntSet returns a Validator accepting well-formed integers contained in allowed.
func IntSet(allowed ...int) Validator {
	set := lo.Keyify(allowed)
	return func(value string) bool {
		if !Int(value) {
			return false
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return false
		}
		_, ok := set[n]
		return ok
	}
}

// StringSet returns a Validator accepting exactly the listed strings.
func StringSet(allowed ...string) Validator {
	set := lo.Keyify(allowed)
	return func(value string) bool {
		_, ok := set[value]
		return ok
	}
}

// IntRange returns a Validator accepting well-formed integers in [from, to].
func IntRange(from, to int) Validator {
	return func(value string) bool {
		if !Int(value) {
			return false
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return false
		}
		return n >= from && n <= to
	}
}

// FloatRange returns a Validator accepting well-formed floats in [from, to].
func FloatRange(from, to float64) Validator {
	return func(value string) bool {
		if !Float(value) {
			return false
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		return f >= from && f <= to
	}
}

// All returns a Validator that accepts a value only if every v accepts it.
func All(vs ...Validator) Validator {
	return func(value string) bool {
		return lo.EveryBy(vs, func(v Validator) bool { return v(value) })
	}
}
