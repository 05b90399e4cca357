package schemafile

import (
	"fmt"
	"sort"
	"strings"
)

// Problem is one invalid field spec.
type Problem struct {
	// Path is "group.key".
	Path    string
	Message string
}

func (p Problem) String() string {
	return p.Path + ": " + p.Message
}

// Error collects every invalid field spec in a document.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	if len(e.Problems) == 1 {
		return "invalid schema: " + e.Problems[0].String()
	}
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("invalid schema: %d problems:\n  - %s", len(e.Problems), strings.Join(msgs, "\n  - "))
}

// HasProblems reports whether any problem was recorded.
func (e *Error) HasProblems() bool {
	return len(e.Problems) > 0
}

func (e *Error) add(path, message string) {
	e.Problems = append(e.Problems, Problem{Path: path, Message: message})
}

func (e *Error) sort() {
	sort.Slice(e.Problems, func(i, j int) bool {
		return e.Problems[i].Path < e.Problems[j].Path
	})
}
