package cfgfile

import (
	"sort"

	"cfgfile/internal/validate"
)

// Field describes one key of a schema group.
type Field struct {
	// Validate checks the raw value read from input. A nil Validate accepts anything.
	Validate validate.Validator

	// Default is stored verbatim when the key is absent from the input.
	// It is not checked by Validate.
	Default string

	// Optional suppresses the missing-value issue for an absent key.
	// The default is still filled in.
	Optional bool
}

func (f Field) accepts(value string) bool {
	if f.Validate == nil {
		return true
	}
	return f.Validate(value)
}

// Group maps key names to their fields.
type Group map[string]Field

// Schema maps group names to their groups. A Schema is only read by Load,
// so one value can be shared by concurrent loads.
type Schema map[string]Group

// Field returns the field declared for group and key.
func (s Schema) Field(group, key string) (Field, bool) {
	g, ok := s[group]
	if !ok {
		return Field{}, false
	}
	f, ok := g[key]
	return f, ok
}

// Check validates a single value the way Load would. It returns nil or a
// *ParseError holding one issue.
func (s Schema) Check(group, key, value string) error {
	g, ok := s[group]
	if !ok {
		return &ParseError{Issues: []Issue{{Kind: UnknownGroup, Group: group}}}
	}
	f, ok := g[key]
	if !ok {
		return &ParseError{Issues: []Issue{{Kind: UnknownKey, Group: group, Key: key}}}
	}
	if !f.accepts(value) {
		return &ParseError{Issues: []Issue{{Kind: InvalidValue, Group: group, Key: key, Value: value}}}
	}
	return nil
}

// Defaults returns a Store holding the default of every declared field.
func (s Schema) Defaults() *Store {
	st := New()
	s.each(func(group, key string, f Field) {
		st.Set(group, key, f.Default)
	})
	return st
}

// each visits every field in group then key order.
func (s Schema) each(fn func(group, key string, f Field)) {
	groups := make([]string, 0, len(s))
	for g := range s {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	for _, g := range groups {
		keys := make([]string, 0, len(s[g]))
		for k := range s[g] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fn(g, k, s[g][k])
		}
	}
}
