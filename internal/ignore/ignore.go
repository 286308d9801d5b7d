// Package ignore compiles glob patterns into a path filter used to
// exclude entries while a template archive is built.
package ignore

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned when a pattern does not compile. A bad
// pattern aborts the whole capture; there is no partial filtering.
var ErrInvalidPattern = errors.New("invalid ignore pattern")

// Filter decides per-path exclusion. A nil *Filter matches nothing.
type Filter struct {
	patterns []string
}

// Compile validates every pattern and returns a case-insensitive
// filter. Patterns use doublestar syntax, so directory exclusions like
// "**/target/**" work as expected.
func Compile(patterns []string) (*Filter, error) {
	compiled := make([]string, 0, len(patterns))
	for _, p := range patterns {
		folded := strings.ToLower(filepath.ToSlash(p))
		if !doublestar.ValidatePattern(folded) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
		compiled = append(compiled, folded)
	}
	return &Filter{patterns: compiled}, nil
}

// Match reports whether any pattern matches the given path. Matching
// is done against the full slash-separated path string, not just the
// base name, and is case-insensitive.
func (f *Filter) Match(path string) bool {
	if f == nil {
		return false
	}
	folded := strings.ToLower(filepath.ToSlash(path))
	for _, p := range f.patterns {
		// Patterns are validated in Compile, so Match cannot fail here.
		if ok, _ := doublestar.Match(p, folded); ok {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.patterns)
}
