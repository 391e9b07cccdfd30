// Package exclude matches slash-separated entry names against shell-style
// exclusion globs.
//
// Patterns are compiled without separators, so "*" and "?" also match "/".
// A pattern such as "*.tmp" therefore excludes "a.tmp" and "sub/a.tmp" alike.
//
// Only "*", "?" and "[...]" classes are special. Braces and backslashes match
// themselves, so "{a,b}.txt" names one file rather than two.
package exclude

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/meigma/ziptree/internal/ziptype"
)

// Matcher holds a set of compiled exclusion patterns.
// The zero value matches nothing.
type Matcher struct {
	globs    []glob.Glob
	patterns []string
	dropped  []string
}

// Compile compiles patterns according to policy.
//
// Under ziptype.PatternsIgnoreInvalid, malformed patterns are dropped and
// reported by Dropped. Under ziptype.PatternsRejectInvalid, the first
// malformed pattern fails compilation with ziptype.ErrInvalidPattern.
func Compile(patterns []string, policy ziptype.PatternPolicy) (*Matcher, error) {
	m := &Matcher{
		globs:    make([]glob.Glob, 0, len(patterns)),
		patterns: make([]string, 0, len(patterns)),
	}
	for _, p := range patterns {
		g, err := glob.Compile(literalize(p))
		if err != nil {
			if policy == ziptype.PatternsRejectInvalid {
				return nil, fmt.Errorf("%w %q: %w", ziptype.ErrInvalidPattern, p, err)
			}
			m.dropped = append(m.dropped, p)
			continue
		}
		m.globs = append(m.globs, g)
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Match reports whether name matches any compiled pattern.
func (m *Matcher) Match(name string) bool {
	if m == nil {
		return false
	}
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns that compiled.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.globs)
}

// Patterns returns the source text of the patterns that compiled.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return m.patterns
}

// Dropped returns the malformed patterns ignored during compilation.
func (m *Matcher) Dropped() []string {
	if m == nil {
		return nil
	}
	return m.dropped
}

// literalize escapes the characters gobwas/glob would otherwise treat as
// alternation or escapes. Text inside a character class is left alone.
func literalize(pattern string) string {
	if !strings.ContainsAny(pattern, `{}\`) {
		return pattern
	}
	var b strings.Builder
	b.Grow(len(pattern) + 4)
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '{' || c == '}' || c == '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
