package rules

import (
	"fmt"
	"iter"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/logging"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/rs/zerolog"
)

// Scanner applies a rule set to files line by line
type Scanner struct {
	check  string
	rules  *RuleSet
	logger zerolog.Logger
}

// NewScanner creates a scanner whose findings are attributed to check
func NewScanner(check string, rules *RuleSet) *Scanner {
	return &Scanner{
		check:  check,
		rules:  rules,
		logger: logging.GetLogger("rules.scanner"),
	}
}

// Scan is a convenience for a one-off scan with an anonymous check id
func Scan(file *types.ChangedFile, rules *RuleSet) iter.Seq[types.Finding] {
	return NewScanner("", rules).Scan(file)
}

// Scan returns the findings of file as a lazy sequence. Each iteration
// scans the file afresh, so the sequence can be ranged over repeatedly.
//
// A rule that fails on a line (by error or panic) produces one error finding
// naming the rule and is skipped for the rest of the file.
func (s *Scanner) Scan(file *types.ChangedFile) iter.Seq[types.Finding] {
	return func(yield func(types.Finding) bool) {
		active := s.applicable(file)
		if len(active) == 0 {
			return
		}

		raw := file.Lines()
		elided := file.Elided()
		disabled := make([]bool, len(active))

		for i := range raw {
			for j, r := range active {
				if disabled[j] {
					continue
				}

				line := Line{
					File:     file,
					Number:   i + 1,
					Raw:      raw[i],
					Elided:   elided[i],
					lookback: r.Lookback,
				}

				caps, ok, err := s.evaluate(r, line)
				if err != nil {
					disabled[j] = true
					s.logger.Warn().
						Err(err).
						Str("rule", r.ID).
						Str("file", file.Path).
						Int("line", line.Number).
						Msg("Rule failed, skipping it for the rest of the file")
					if !yield(s.failure(r, line, err)) {
						return
					}
					continue
				}
				if !ok {
					continue
				}

				if !yield(types.Finding{
					Check:    s.check,
					Rule:     r.ID,
					Path:     file.Path,
					Line:     line.Number,
					Severity: r.Severity,
					Message:  r.Render(caps),
				}) {
					return
				}
			}
		}
	}
}

// Collect drains Scan into a slice
func (s *Scanner) Collect(file *types.ChangedFile) []types.Finding {
	var out []types.Finding
	for f := range s.Scan(file) {
		out = append(out, f)
	}
	return out
}

func (s *Scanner) applicable(file *types.ChangedFile) []Rule {
	var active []Rule
	for _, r := range s.rules.Rules() {
		if r.Applies(file) {
			active = append(active, r)
		}
	}
	return active
}

func (s *Scanner) evaluate(r Rule, line Line) (caps Captures, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			caps, ok = nil, false
			err = errors.Newf(errors.ErrRuleEvaluation, "rule %s panicked: %v", r.ID, rec).
				WithDetail("rule", r.ID)
		}
	}()

	caps, ok, err = r.Match(line)
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrRuleEvaluation, "rule %s failed", r.ID).
			WithDetail("rule", r.ID)
	}
	return caps, ok, nil
}

func (s *Scanner) failure(r Rule, line Line, err error) types.Finding {
	return types.Finding{
		Check:    s.check,
		Rule:     r.ID,
		Path:     line.File.Path,
		Line:     line.Number,
		Severity: types.SeverityError,
		Message:  fmt.Sprintf("rule %s could not be evaluated and was skipped for the rest of this file: %v", r.ID, err),
	}
}
