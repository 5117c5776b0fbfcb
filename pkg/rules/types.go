package rules

import (
	"os"
	"time"

	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single regular expression evaluation
const matchTimeout = 250 * time.Millisecond

// Captures holds the named groups of a match, used to render messages
type Captures map[string]string

// Matcher inspects one line. It reports whether the rule fired and the
// captures to render its message with. A returned error disables the rule
// for the rest of the file.
type Matcher func(line Line) (Captures, bool, error)

// Predicate selects the files a rule applies to
type Predicate func(f *types.ChangedFile) bool

// Rule is one line-level check
type Rule struct {
	// ID is unique within a RuleSet, e.g. "runtime/noexcept"
	ID string

	// Description is a one-line summary shown by `presubmit rules`
	Description string

	// Severity of the findings this rule produces
	Severity types.Severity

	// AppliesTo gates the rule per file; nil means every text file
	AppliesTo Predicate

	// Lookback is how many preceding elided lines Line.Back may reach
	Lookback int

	// Match is evaluated once per line
	Match Matcher

	// Message is the finding message template
	Message string
}

// Applies reports whether the rule should run on f
func (r Rule) Applies(f *types.ChangedFile) bool {
	if f.Binary {
		return false
	}
	if r.AppliesTo == nil {
		return true
	}
	return r.AppliesTo(f)
}

// Render expands the message template with the given captures
func (r Rule) Render(c Captures) string {
	return os.Expand(r.Message, func(key string) string {
		if key == "$" {
			return "$"
		}
		return c[key]
	})
}

// Line is the view of a single physical line handed to matchers
type Line struct {
	File   *types.ChangedFile
	Number int // 1-based
	Raw    string
	Elided string

	lookback int
}

// Back returns the elided line n lines above this one. It fails beyond the
// rule's lookback window or before the start of the file. There is no way
// to look forward.
func (l Line) Back(n int) (string, bool) {
	if n < 1 || n > l.lookback {
		return "", false
	}
	idx := l.Number - 1 - n
	if idx < 0 {
		return "", false
	}
	return l.File.Elided()[idx], true
}

// Built-in predicates
var (
	// HeadersOnly selects declaration files
	HeadersOnly Predicate = func(f *types.ChangedFile) bool { return f.Kind == types.FileKindHeader }

	// CppFiles selects C/C++ headers and sources
	CppFiles Predicate = func(f *types.ChangedFile) bool { return f.IsCpp() }
)

// compile builds a regexp2 expression with the package match timeout.
// Patterns are .NET flavoured so that lookarounds and backreferences work.
func compile(expr string) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.None)
	re.MatchTimeout = matchTimeout
	return re
}

// OnElided returns a matcher running expr against the elided line
func OnElided(expr string) Matcher {
	re := compile(expr)
	return func(l Line) (Captures, bool, error) {
		return find(re, l.Elided)
	}
}

// OnRaw returns a matcher running expr against the raw line
func OnRaw(expr string) Matcher {
	re := compile(expr)
	return func(l Line) (Captures, bool, error) {
		return find(re, l.Raw)
	}
}

func find(re *regexp2.Regexp, s string) (Captures, bool, error) {
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return nil, false, err
	}
	return capturesOf(m), true, nil
}

func capturesOf(m *regexp2.Match) Captures {
	caps := make(Captures)
	for _, g := range m.Groups() {
		caps[g.Name] = g.String()
	}
	caps["match"] = trimSpace(m.String())
	return caps
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}
