// Package cfgfile reads and writes grouped key/value configuration files.
//
// The format is line oriented:
//
//	# comment
//	[Window]
//	width = 1280
//	title = "My Window"
//
// Load checks every assignment against a caller-supplied Schema, fills in
// defaults for fields the input never set, and reports all problems in a
// single *ParseError. Save writes a Store back out in the same format.
package cfgfile

import "sort"

// Store holds raw configuration values by group and key.
// A Store is not safe for concurrent use without external locking.
type Store struct {
	groups map[string]map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{groups: make(map[string]map[string]string)}
}

// FromMap returns a Store holding a copy of data.
func FromMap(data map[string]map[string]string) *Store {
	s := New()
	for g, kv := range data {
		for k, v := range kv {
			s.Set(g, k, v)
		}
	}
	return s
}

// Set stores value under group and key, replacing any previous value.
func (s *Store) Set(group, key, value string) {
	if s.groups == nil {
		s.groups = make(map[string]map[string]string)
	}
	kv, ok := s.groups[group]
	if !ok {
		kv = make(map[string]string)
		s.groups[group] = kv
	}
	kv[key] = value
}

// Delete removes group and key and reports whether it was present.
// A group left without keys is removed as well.
func (s *Store) Delete(group, key string) bool {
	kv, ok := s.groups[group]
	if !ok {
		return false
	}
	if _, ok := kv[key]; !ok {
		return false
	}
	delete(kv, key)
	if len(kv) == 0 {
		delete(s.groups, group)
	}
	return true
}

// Lookup returns the raw value for group and key and whether it was found.
func (s *Store) Lookup(group, key string) (string, bool) {
	v, ok := s.groups[group][key]
	return v, ok
}

// Get returns a typed view of the value for group and key. It returns a
// *LookupError wrapping ErrNotFound if the pair is not stored.
func (s *Store) Get(group, key string) (Value, error) {
	v, ok := s.Lookup(group, key)
	if !ok {
		return Value{}, &LookupError{Group: group, Key: key}
	}
	return Value{raw: v}, nil
}

// Groups returns the group names in sorted order.
func (s *Store) Groups() []string {
	out := make([]string, 0, len(s.groups))
	for g := range s.groups {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Keys returns the key names of group in sorted order.
func (s *Store) Keys(group string) []string {
	kv := s.groups[group]
	out := make([]string, 0, len(kv))
	for k := range kv {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of stored values across all groups.
func (s *Store) Len() int {
	n := 0
	for _, kv := range s.groups {
		n += len(kv)
	}
	return n
}

// All returns a copy of every stored value.
func (s *Store) All() map[string]map[string]string {
	out := make(map[string]map[string]string, len(s.groups))
	for g, kv := range s.groups {
		cp := make(map[string]string, len(kv))
		for k, v := range kv {
			cp[k] = v
		}
		out[g] = cp
	}
	return out
}
