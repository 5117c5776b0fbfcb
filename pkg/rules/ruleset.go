package rules

import (
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/registry"
	"github.com/arthur-debert/presubmit/pkg/types"
)

// RuleSet is an insertion-ordered collection of rules keyed by id.
// It is read-only once a run starts and safe to share between checks.
type RuleSet struct {
	reg registry.Registry[Rule]
}

// NewRuleSet creates a rule set from rules, validating each
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	rs := &RuleSet{reg: registry.New[Rule]()}
	for _, r := range rules {
		if err := rs.Add(r); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// MustRuleSet is NewRuleSet for built-in catalogues
func MustRuleSet(rules ...Rule) *RuleSet {
	rs, err := NewRuleSet(rules...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Add registers a rule. Ids must be unique.
func (rs *RuleSet) Add(r Rule) error {
	if r.ID == "" {
		return errors.New(errors.ErrInvalidInput, "rule id cannot be empty")
	}
	if r.Match == nil {
		return errors.Newf(errors.ErrInvalidInput, "rule %s has no matcher", r.ID)
	}
	if r.Lookback < 0 {
		return errors.Newf(errors.ErrInvalidInput, "rule %s has negative lookback", r.ID)
	}
	switch r.Severity {
	case "":
		r.Severity = types.SeverityError
	case types.SeverityError, types.SeverityWarning:
	default:
		return errors.Newf(errors.ErrInvalidInput, "rule %s has unknown severity %q", r.ID, r.Severity)
	}
	return rs.reg.Register(r.ID, r)
}

// Rules returns the rules in insertion order
func (rs *RuleSet) Rules() []Rule {
	return rs.reg.Values()
}

// Get returns the rule with the given id
func (rs *RuleSet) Get(id string) (Rule, bool) {
	r, err := rs.reg.Get(id)
	return r, err == nil
}

// Len returns the number of rules
func (rs *RuleSet) Len() int {
	return rs.reg.Count()
}

// Filter returns a new rule set holding the rules enabled by filters,
// keeping their relative order
func (rs *RuleSet) Filter(filters Filters) *RuleSet {
	out := &RuleSet{reg: registry.New[Rule]()}
	for _, r := range rs.Rules() {
		if filters.Enabled(r.ID) {
			_ = out.reg.Register(r.ID, r)
		}
	}
	return out
}
