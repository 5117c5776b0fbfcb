package rules

import (
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/presubmit/pkg/types"
)

// Rule ids of the built-in catalogue
const (
	RuleNoexcept       = "runtime/noexcept"
	RuleRedundantCheck = "runtime/redundant_check"
	RuleCxx11Headers   = "build/c++11"
	RuleBraces         = "whitespace/braces"
	RuleLineLength     = "whitespace/line_length"
	RuleTab            = "whitespace/tab"
	RuleEndOfLine      = "whitespace/end_of_line"
	RuleDoNotSubmit    = "readability/do_not_submit"
	RuleTodo           = "readability/todo"
)

// DefaultLintFilters are applied to LintRules unless configured otherwise
var DefaultLintFilters = []string{"-build/c++11", "-whitespace/braces"}

// DefaultMaxLineLength is the column limit of the line length rule
const DefaultMaxLineLength = 80

// redundantCheckWindow is how far back an OSP_CHECK may guarantee a DCHECK
const redundantCheckWindow = 5

// doNotSubmit is assembled so this file does not trip its own rule
var doNotSubmit = "DO NOT" + " SUBMIT"

// NoexceptOnMove flags move constructors declared without noexcept.
// The qualifier only means something on a declaration, so definitions in
// source files are never checked.
func NoexceptOnMove() Rule {
	return Rule{
		ID:          RuleNoexcept,
		Description: "move constructors must be declared noexcept",
		Severity:    types.SeverityError,
		AppliesTo:   HeadersOnly,
		Match:       OnElided(`^\s*(?<classname>\w+)\(\k<classname>&&[^)]*\)\s*(?!noexcept)\s*[{;=]`),
		Message:     "Move constructor of ${classname} not declared 'noexcept' in ${match}",
	}
}

var (
	dcheckExpr = compile(`\bOSP_DCHECK(?<op>_[A-Z]{2})?\((?<expr>.*)\)\s*;`)
	checkExpr  = compile(`\bOSP_CHECK(?<op>_[A-Z]{2})?\((?<expr>.*)\)\s*;`)
)

// RedundantCheck flags an OSP_DCHECK that repeats an OSP_CHECK of the same
// expression a few lines above it. The OSP_CHECK already aborts in every
// build, so the debug-only assertion adds nothing.
func RedundantCheck() Rule {
	return Rule{
		ID:          RuleRedundantCheck,
		Description: "OSP_DCHECK repeating a preceding OSP_CHECK",
		Severity:    types.SeverityError,
		AppliesTo:   CppFiles,
		Lookback:    redundantCheckWindow,
		Match:       matchRedundantCheck,
		Message:     "OSP_DCHECK${op}(${expr}) is redundant: OSP_CHECK${op} on line ${line} already guarantees it",
	}
}

func matchRedundantCheck(l Line) (Captures, bool, error) {
	caps, ok, err := find(dcheckExpr, l.Elided)
	if err != nil || !ok {
		return nil, false, err
	}
	want := normalizeExpr(caps["expr"])

	for n := 1; ; n++ {
		prev, ok := l.Back(n)
		if !ok {
			return nil, false, nil
		}
		prevCaps, found, err := find(checkExpr, prev)
		if err != nil {
			return nil, false, err
		}
		if found && prevCaps["op"] == caps["op"] && normalizeExpr(prevCaps["expr"]) == want {
			caps["line"] = strconv.Itoa(l.Number - n)
			caps["expr"] = strings.TrimSpace(caps["expr"])
			return caps, true, nil
		}
	}
}

func normalizeExpr(expr string) string {
	return strings.Join(strings.Fields(expr), "")
}

// Cxx11Headers flags C++11 headers that are not approved for use
func Cxx11Headers() Rule {
	return Rule{
		ID:          RuleCxx11Headers,
		Description: "unapproved C++11 headers",
		Severity:    types.SeverityError,
		AppliesTo:   CppFiles,
		Match:       OnRaw(`^\s*#\s*include\s+<(?<header>cfenv|condition_variable|fenv\.h|future|mutex|thread|chrono|ratio|regex|system_error)>`),
		Message:     "<${header}> is an unapproved C++11 header",
	}
}

// Braces flags an opening brace alone on its line
func Braces() Rule {
	return Rule{
		ID:          RuleBraces,
		Description: "opening brace on its own line",
		Severity:    types.SeverityError,
		AppliesTo:   CppFiles,
		Match:       OnElided(`^\s*\{\s*$`),
		Message:     "{ should almost always be at the end of the previous line",
	}
}

// LineLength flags raw lines longer than max characters. Lines holding a
// URL and include or import directives are exempt.
func LineLength(max int) Rule {
	if max <= 0 {
		max = DefaultMaxLineLength
	}
	exempt := compile(`(?:https?://|^\s*#\s*(?:include|import)\b|^import\b)`)
	limit := strconv.Itoa(max)

	return Rule{
		ID:          RuleLineLength,
		Description: "lines longer than " + limit + " characters",
		Severity:    types.SeverityError,
		Match: func(l Line) (Captures, bool, error) {
			n := utf8.RuneCountInString(l.Raw)
			if n <= max {
				return nil, false, nil
			}
			skip, err := exempt.MatchString(l.Raw)
			if err != nil || skip {
				return nil, false, err
			}
			return Captures{"length": strconv.Itoa(n), "max": limit}, true, nil
		},
		Message: "Line is ${length} characters long (max ${max})",
	}
}

// Tabs flags tab characters outside of makefiles
func Tabs() Rule {
	return Rule{
		ID:          RuleTab,
		Description: "tab characters",
		Severity:    types.SeverityError,
		AppliesTo: func(f *types.ChangedFile) bool {
			base := path.Base(f.Path)
			return base != "Makefile" && path.Ext(base) != ".mk"
		},
		Match:   OnRaw(`\t`),
		Message: "Tab character found",
	}
}

// TrailingWhitespace flags whitespace at the end of a line
func TrailingWhitespace() Rule {
	return Rule{
		ID:          RuleEndOfLine,
		Description: "trailing whitespace",
		Severity:    types.SeverityError,
		Match:       OnRaw(`[ \t]+\r?$`),
		Message:     "Line ends in whitespace",
	}
}

// DoNotSubmit flags the do-not-submit marker anywhere in a line
func DoNotSubmit() Rule {
	return Rule{
		ID:          RuleDoNotSubmit,
		Description: "do-not-submit markers",
		Severity:    types.SeverityError,
		Match: func(l Line) (Captures, bool, error) {
			return nil, strings.Contains(l.Raw, doNotSubmit), nil
		},
		Message: "Found a do-not-submit marker, remove it before landing",
	}
}

// TodoOwner flags TODOs that carry no owner or bug
func TodoOwner() Rule {
	return Rule{
		ID:          RuleTodo,
		Description: "TODO without an owner or bug",
		Severity:    types.SeverityWarning,
		Match:       OnRaw(`\bTODO\b(?!\()`),
		Message:     "TODO requires an owner or bug, e.g. TODO(name) or TODO(issue/123)",
	}
}

// LintRules returns the C/C++ lint catalogue, unfiltered
func LintRules() []Rule {
	return []Rule{
		Cxx11Headers(),
		Braces(),
		NoexceptOnMove(),
		RedundantCheck(),
	}
}

// PanProjectRules returns the rules applied to every text file
func PanProjectRules(maxLineLength int) []Rule {
	return []Rule{
		LineLength(maxLineLength),
		Tabs(),
		TrailingWhitespace(),
		DoNotSubmit(),
		TodoOwner(),
	}
}

// Builtin returns every built-in rule, lint rules first
func Builtin(maxLineLength int) []Rule {
	return append(LintRules(), PanProjectRules(maxLineLength)...)
}
