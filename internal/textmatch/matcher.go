// Package textmatch provides line-oriented alias matching for intent
// triggers and slot values.
//
// Two strictness modes exist. FullLine requires the phrase to be the
// entirety of a line (surrounding whitespace and punctuation ignored) and
// is used for slot-value aliases such as city names. Boundary requires the
// phrase to appear as an isolated token anywhere in a line and is used for
// trigger phrases that may be embedded in a longer sentence.
package textmatch

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode selects the matching strictness for a compiled pattern.
type Mode int

const (
	// FullLine matches only when the phrase is the whole line, ignoring
	// leading and trailing whitespace and punctuation.
	FullLine Mode = iota
	// Boundary matches when the phrase appears as an isolated token: not
	// adjacent to a letter or digit on either side. Line start and end
	// count as boundaries.
	Boundary
)

// Matcher is a compiled, case-insensitive alias pattern.
type Matcher struct {
	re *regexp.Regexp
}

// Compile builds a Matcher from a pattern expression. The expression may
// use regexp alternation and grouping; it is wrapped according to the mode
// and compiled case-insensitively.
func Compile(expr string, mode Mode) (*Matcher, error) {
	var wrapped string
	switch mode {
	case FullLine:
		wrapped = fmt.Sprintf(`(?i)^[\s\p{P}]*(?:%s)[\s\p{P}]*$`, expr)
	case Boundary:
		wrapped = fmt.Sprintf(`(?i)(?:^|[^\p{L}\p{N}])(?:%s)(?:[^\p{L}\p{N}]|$)`, expr)
	default:
		return nil, fmt.Errorf("unknown match mode %d", mode)
	}

	re, err := regexp.Compile(wrapped)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", expr, err)
	}
	return &Matcher{re: re}, nil
}

// MustCompile is like Compile but panics on error. Intended for static
// alias tables.
func MustCompile(expr string, mode Mode) *Matcher {
	m, err := Compile(expr, mode)
	if err != nil {
		panic(err)
	}
	return m
}

// CompileAll compiles a list of expressions with the same mode.
func CompileAll(mode Mode, exprs ...string) ([]*Matcher, error) {
	matchers := make([]*Matcher, 0, len(exprs))
	for _, expr := range exprs {
		m, err := Compile(expr, mode)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// MustCompileAll is like CompileAll but panics on error.
func MustCompileAll(mode Mode, exprs ...string) []*Matcher {
	matchers, err := CompileAll(mode, exprs...)
	if err != nil {
		panic(err)
	}
	return matchers
}

// Match reports whether any line of the query satisfies the matcher.
// Multi-line input is evaluated line by line; one matching line is enough.
func (m *Matcher) Match(query string) bool {
	for _, line := range strings.Split(query, "\n") {
		if m.re.MatchString(line) {
			return true
		}
	}
	return false
}

// MatchAny reports whether any line of the query satisfies any of the
// matchers.
func MatchAny(query string, matchers []*Matcher) bool {
	for _, m := range matchers {
		if m.Match(query) {
			return true
		}
	}
	return false
}
