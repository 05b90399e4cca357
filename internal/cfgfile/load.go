package cfgfile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	groupLine  = regexp.MustCompile(`^[ \t]*\[[ \t]*([A-Za-z0-9_]*)[ \t]*\][ \t]*$`)
	assignLine = regexp.MustCompile(`^[ \t]*([A-Za-z0-9_]*)[ \t]*=[ \t]*(.*)$`)
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	logger *zap.Logger
}

// WithLogger makes Load report issues and defaulting at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Load reads configuration text from r and checks it against schema.
//
// Every line is processed even after a problem is found. Fields the input
// never set receive their schema default. If any issue was recorded, Load
// returns the populated Store together with a *ParseError listing all of
// them; callers must treat the Store as unreliable in that case. Lines may
// be of any length. A read failure returns an error wrapping
// ErrSourceUnavailable and no Store.
func Load(r io.Reader, schema Schema, opts ...Option) (*Store, error) {
	o := loadOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	p := &parser{
		schema: schema,
		store:  New(),
		found:  make(map[string]map[string]bool, len(schema)),
		errs:   &ParseError{},
		log:    o.logger,
	}

	br := bufio.NewReader(r)
	for line := 1; ; line++ {
		text, err := br.ReadString('\n')
		if text != "" {
			text = strings.TrimSuffix(text, "\n")
			p.line(line, strings.TrimSuffix(text, "\r"))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
	}

	p.finish()

	if len(p.errs.Issues) > 0 {
		return p.store, p.errs
	}
	return p.store, nil
}

type parser struct {
	schema Schema
	store  *Store
	found  map[string]map[string]bool
	errs   *ParseError
	log    *zap.Logger

	group   string
	inGroup bool
}

func (p *parser) line(n int, text string) {
	if isBlankOrComment(text) {
		return
	}

	if p.inGroup {
		if m := assignLine.FindStringSubmatch(text); m != nil {
			p.assign(n, m[1], unquote(m[2]))
			return
		}
	}

	if m := groupLine.FindStringSubmatch(text); m != nil {
		if _, ok := p.schema[m[1]]; !ok {
			p.issue(Issue{Line: n, Kind: UnknownGroup, Group: m[1]})
			return
		}
		p.group, p.inGroup = m[1], true
	}
	// Other lines are ignored.
}

func (p *parser) assign(n int, key, value string) {
	field, ok := p.schema[p.group][key]
	if !ok {
		p.issue(Issue{Line: n, Kind: UnknownKey, Group: p.group, Key: key})
		return
	}
	if !field.accepts(value) {
		p.issue(Issue{Line: n, Kind: InvalidValue, Group: p.group, Key: key, Value: value})
		return
	}
	if p.found[p.group] == nil {
		p.found[p.group] = make(map[string]bool)
	}
	p.found[p.group][key] = true
	p.store.Set(p.group, key, value)
}

// finish fills defaults, then records a missing issue for every field the
// input never set unless the field is optional.
func (p *parser) finish() {
	defaulted := 0
	p.schema.each(func(group, key string, f Field) {
		if p.found[group][key] {
			return
		}
		p.store.Set(group, key, f.Default)
		defaulted++
	})
	p.schema.each(func(group, key string, f Field) {
		if p.found[group][key] || f.Optional {
			return
		}
		p.issue(Issue{Kind: MissingValue, Group: group, Key: key})
	})
	if defaulted > 0 {
		p.log.Debug("filled config defaults", zap.Int("count", defaulted))
	}
}

func (p *parser) issue(is Issue) {
	p.log.Debug("config issue",
		zap.Int("line", is.Line),
		zap.Stringer("kind", is.Kind),
		zap.String("group", is.Group),
		zap.String("key", is.Key))
	p.errs.add(is)
}

func isBlankOrComment(line string) bool {
	trimmed := strings.TrimLeft(line, " \t\n\v\f\r")
	return trimmed == "" || trimmed[0] == '#'
}

// unquote strips one pair of matching single or double quotes. The contents
// are kept verbatim, backslashes included.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
