// Package exclusion decides which changed files are invisible to a run.
//
// Patterns are regular expressions (regexp2 syntax, so lookbehind is
// available) matched from the start of the slash separated, repository
// relative path. A run either uses the process defaults or replaces them
// wholesale; the two are never merged.
package exclusion

import (
	"strings"
	"time"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/dlclark/regexp2"
)

const matchTimeout = 100 * time.Millisecond

// DefaultPatterns are the exclusions used when a run configures none
var DefaultPatterns = []string{
	// All of third_party/ except the BUILD.gn files maintained here
	`third_party[\\/].*(?<!BUILD\.gn)$`,
	`third_party/chromium_quic/(src|build)/.*`,
	// Output directories
	`.*\bDebug[\\/].*`,
	`.*\bRelease[\\/].*`,
	`.*\bxcodebuild[\\/].*`,
	`.*\bout[\\/].*`,
	// Patch files
	`.+\.diff$`,
	`.+\.patch$`,
}

// Set is an ordered, compiled list of exclusion patterns. It is read-only
// after construction and safe for concurrent use.
type Set struct {
	patterns []string
	compiled []*regexp2.Regexp
}

// Compile builds a set from patterns, failing on the first invalid one
func Compile(patterns []string) (*Set, error) {
	s := &Set{
		patterns: append([]string(nil), patterns...),
		compiled: make([]*regexp2.Regexp, 0, len(patterns)),
	}
	for _, p := range patterns {
		re, err := regexp2.Compile(`^(?:`+p+`)`, regexp2.None)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid exclusion pattern %q", p).
				WithDetail("pattern", p)
		}
		re.MatchTimeout = matchTimeout
		s.compiled = append(s.compiled, re)
	}
	return s, nil
}

// MustCompile is Compile for static pattern lists
func MustCompile(patterns []string) *Set {
	s, err := Compile(patterns)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the process-wide default set
func Default() *Set {
	return MustCompile(DefaultPatterns)
}

// Empty returns a set that excludes nothing
func Empty() *Set {
	return &Set{}
}

// Replace returns a new set built from patterns alone. The receiver's
// patterns are dropped, not merged.
func (s *Set) Replace(patterns []string) (*Set, error) {
	return Compile(patterns)
}

// Patterns returns the source patterns in order
func (s *Set) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Match reports whether relPath is excluded. A pattern that times out is
// treated as not matching.
func (s *Set) Match(relPath string) bool {
	p := strings.ReplaceAll(relPath, `\`, "/")
	for _, re := range s.compiled {
		if ok, err := re.MatchString(p); err == nil && ok {
			return true
		}
	}
	return false
}

// Filter splits files into the ones checks may see and the excluded ones,
// preserving order
func (s *Set) Filter(files []*types.ChangedFile) (kept, excluded []*types.ChangedFile) {
	for _, f := range files {
		if s.Match(f.Path) {
			excluded = append(excluded, f)
			continue
		}
		kept = append(kept, f)
	}
	return kept, excluded
}
