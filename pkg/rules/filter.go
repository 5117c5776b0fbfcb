package rules

import (
	"strings"

	"github.com/arthur-debert/presubmit/pkg/errors"
)

// Filter toggles every rule whose id starts with Prefix
type Filter struct {
	Enable bool
	Prefix string
}

// Filters is an ordered filter list; later entries override earlier ones
type Filters []Filter

// ParseFilters parses cpplint style filters. Each entry may itself be a
// comma separated list, e.g. "-build/c++11,-whitespace/braces".
func ParseFilters(entries ...string) (Filters, error) {
	var out Filters
	for _, entry := range entries {
		for _, raw := range strings.Split(entry, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			var f Filter
			switch raw[0] {
			case '+':
				f.Enable = true
			case '-':
				f.Enable = false
			default:
				return nil, errors.Newf(errors.ErrInvalidInput,
					"rule filter %q must start with '+' or '-'", raw).WithDetail("filter", raw)
			}
			f.Prefix = raw[1:]
			if f.Prefix == "" {
				return nil, errors.Newf(errors.ErrInvalidInput, "rule filter %q has no rule prefix", raw)
			}
			out = append(out, f)
		}
	}
	return out, nil
}

// Enabled reports whether rule id survives the filters. Rules are enabled
// unless a filter says otherwise.
func (fs Filters) Enabled(id string) bool {
	enabled := true
	for _, f := range fs {
		if strings.HasPrefix(id, f.Prefix) {
			enabled = f.Enable
		}
	}
	return enabled
}

// String renders the filters back into their comma separated form
func (fs Filters) String() string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		sign := "-"
		if f.Enable {
			sign = "+"
		}
		parts[i] = sign + f.Prefix
	}
	return strings.Join(parts, ",")
}
