// Package matcher tests file base names against a user pattern.
package matcher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	regexp "github.com/wasilibs/go-re2"
)

// DefaultPattern matches every name
const DefaultPattern = ".*"

// Syntax selects how a pattern is compiled
type Syntax string

const (
	SyntaxRegex Syntax = "regex"
	SyntaxGlob  Syntax = "glob"
)

// ParseSyntax converts a config string to a Syntax. Empty means regex.
func ParseSyntax(s string) (Syntax, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SyntaxRegex):
		return SyntaxRegex, nil
	case string(SyntaxGlob):
		return SyntaxGlob, nil
	default:
		return "", fmt.Errorf("unknown pattern syntax %q", s)
	}
}

// InvalidPatternError reports a pattern that failed to compile
type InvalidPatternError struct {
	Pattern string
	Syntax  Syntax
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Syntax, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// Matcher tests the final segment of a path against a compiled pattern
type Matcher struct {
	pattern string
	syntax  Syntax
	re      *regexp.Regexp
	g       glob.Glob
}

// New compiles a regular expression matcher
func New(pattern string) (*Matcher, error) {
	return NewWithSyntax(pattern, SyntaxRegex)
}

// NewWithSyntax compiles pattern using the given syntax
func NewWithSyntax(pattern string, syntax Syntax) (*Matcher, error) {
	m := &Matcher{pattern: pattern, syntax: syntax}

	switch syntax {
	case SyntaxGlob:
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, &InvalidPatternError{Pattern: pattern, Syntax: syntax, Err: err}
		}
		m.g = g
	case SyntaxRegex, "":
		m.syntax = SyntaxRegex
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &InvalidPatternError{Pattern: pattern, Syntax: SyntaxRegex, Err: err}
		}
		m.re = re
	default:
		return nil, &InvalidPatternError{
			Pattern: pattern,
			Syntax:  syntax,
			Err:     fmt.Errorf("unknown syntax %q", syntax),
		}
	}

	return m, nil
}

// Matches reports whether the base name of name matches the pattern.
// Regular expressions search anywhere in the name; globs must cover it.
func (m *Matcher) Matches(name string) bool {
	base := filepath.Base(name)
	if m.g != nil {
		return m.g.Match(base)
	}
	return m.re.MatchString(base)
}

// Syntax returns the syntax the pattern was compiled with
func (m *Matcher) Syntax() Syntax {
	return m.syntax
}

// String returns the source pattern
func (m *Matcher) String() string {
	return m.pattern
}
