package cfgfile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceUnavailable is returned when the input cannot be read.
	ErrSourceUnavailable = errors.New("config source unavailable")

	// ErrSinkUnavailable is returned when Save cannot write its output.
	ErrSinkUnavailable = errors.New("config sink unavailable")

	// ErrNotFound is returned by Get for a group/key that is not in the Store.
	ErrNotFound = errors.New("config value not found")

	// ErrSchemaViolation matches a ParseError holding an unknown group,
	// unknown key or invalid value issue.
	ErrSchemaViolation = errors.New("config does not match schema")

	// ErrRequiredFieldMissing matches a ParseError holding a missing field issue.
	ErrRequiredFieldMissing = errors.New("required config field missing")
)

// IssueKind classifies a problem found while loading.
type IssueKind int

const (
	UnknownGroup IssueKind = iota + 1
	UnknownKey
	InvalidValue
	MissingValue
)

func (k IssueKind) String() string {
	switch k {
	case UnknownGroup:
		return "unknown_group"
	case UnknownKey:
		return "unknown_key"
	case InvalidValue:
		return "invalid_value"
	case MissingValue:
		return "missing_value"
	default:
		return fmt.Sprintf("IssueKind(%d)", int(k))
	}
}

// Issue is a single problem found while loading.
type Issue struct {
	// Line is the 1-based input line, or 0 for issues found after the scan.
	Line  int
	Kind  IssueKind
	Group string
	Key   string
	Value string
}

func (i Issue) String() string {
	var msg string
	switch i.Kind {
	case UnknownGroup:
		msg = "unknown group: " + i.Group
	case UnknownKey:
		msg = fmt.Sprintf("unknown value: %s:%s", i.Group, i.Key)
	case InvalidValue:
		msg = fmt.Sprintf("value failed validation: %s:%s = %q", i.Group, i.Key, i.Value)
	case MissingValue:
		msg = fmt.Sprintf("value not found: %s:%s", i.Group, i.Key)
	default:
		msg = i.Kind.String()
	}
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, msg)
	}
	return msg
}

// ParseError collects every issue found in one Load call.
type ParseError struct {
	Issues []Issue
}

// Error renders one issue per line, in the order they were found.
func (e *ParseError) Error() string {
	if len(e.Issues) == 0 {
		return "no config issues"
	}
	lines := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		lines[i] = is.String()
	}
	return strings.Join(lines, "\n")
}

// Is reports whether the error contains issues of the class named by target.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrSchemaViolation:
		return e.has(UnknownGroup, UnknownKey, InvalidValue)
	case ErrRequiredFieldMissing:
		return e.has(MissingValue)
	}
	return false
}

// Missing returns the issues for schema fields absent from the input.
func (e *ParseError) Missing() []Issue {
	return e.filter(MissingValue)
}

// Violations returns every issue other than missing fields.
func (e *ParseError) Violations() []Issue {
	return e.filter(UnknownGroup, UnknownKey, InvalidValue)
}

func (e *ParseError) has(kinds ...IssueKind) bool {
	return len(e.filter(kinds...)) > 0
}

func (e *ParseError) filter(kinds ...IssueKind) []Issue {
	var out []Issue
	for _, is := range e.Issues {
		for _, k := range kinds {
			if is.Kind == k {
				out = append(out, is)
				break
			}
		}
	}
	return out
}

func (e *ParseError) add(is Issue) {
	e.Issues = append(e.Issues, is)
}

// LookupError reports a Get for a group/key the Store does not hold.
type LookupError struct {
	Group string
	Key   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s:%s", ErrNotFound, e.Group, e.Key)
}

func (e *LookupError) Unwrap() error {
	return ErrNotFound
}
