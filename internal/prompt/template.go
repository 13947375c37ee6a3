// Package prompt compiles {name}-style templates into rendered strings and
// role-tagged chat messages.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches "{", one or more non-"}" characters, then "}".
var placeholderPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Values maps placeholder names to the values substituted for them.
type Values map[string]any

// Option configures a Template.
type Option func(*Template)

// WithDefaults sets fallback values used when a render call omits a placeholder.
func WithDefaults(defaults Values) Option {
	return func(t *Template) {
		for k, v := range defaults {
			t.defaults[k] = v
		}
	}
}

// WithStrict makes Render fail when a placeholder has neither a call-time
// value nor a default.
func WithStrict(strict bool) Option {
	return func(t *Template) {
		t.strict = strict
	}
}

// Template is an immutable prompt string containing {name} placeholders.
type Template struct {
	text     string
	strict   bool
	defaults Values
	names    []string
}

// NewTemplate parses text and returns a Template.
func NewTemplate(text string, opts ...Option) *Template {
	t := &Template{
		text:     text,
		defaults: Values{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.names = parsePlaceholders(text)
	return t
}

func parsePlaceholders(text string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// Text returns the raw template string.
func (t *Template) Text() string { return t.text }

// Strict reports whether missing placeholders are an error.
func (t *Template) Strict() bool { return t.strict }

// Defaults returns a copy of the configured default values.
func (t *Template) Defaults() Values {
	out := make(Values, len(t.defaults))
	for k, v := range t.defaults {
		out[k] = v
	}
	return out
}

// Placeholders returns the unique placeholder names in the template. The
// slice is ordered by first appearance, but callers should treat it as a set.
func (t *Template) Placeholders() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Resolve merges call-time values over defaults for every placeholder in the
// template. Unresolved names map to the empty string and are reported in
// missing.
func (t *Template) Resolve(values Values) (resolved map[string]string, missing []string) {
	resolved = make(map[string]string, len(t.names))
	for _, name := range t.names {
		if v, ok := values[name]; ok {
			resolved[name] = formatValue(v)
			continue
		}
		if v, ok := t.defaults[name]; ok {
			resolved[name] = formatValue(v)
			continue
		}
		resolved[name] = ""
		missing = append(missing, name)
	}
	return resolved, missing
}

// Render substitutes every placeholder and returns the final string.
// Substituted text is inserted literally and never re-expanded.
func (t *Template) Render(values Values) (string, error) {
	resolved, missing := t.Resolve(values)
	if t.strict && len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingVariable, strings.Join(missing, ", "))
	}
	if len(t.names) == 0 {
		return t.text, nil
	}
	return placeholderPattern.ReplaceAllStringFunc(t.text, func(match string) string {
		return resolved[match[1:len(match)-1]]
	}), nil
}

// MustRender is like Render but panics on error.
func (t *Template) MustRender(values Values) string {
	s, err := t.Render(values)
	if err != nil {
		panic(err)
	}
	return s
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
