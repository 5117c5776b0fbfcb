package testutil

import (
	"github.com/arthur-debert/presubmit/pkg/types"
)

// FindingsFor returns the findings of one check
func FindingsFor(findings []types.Finding, check string) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if f.Check == check {
			out = append(out, f)
		}
	}
	return out
}

// FindingsAt returns the findings located in path
func FindingsAt(findings []types.Finding, path string) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if f.Path == path {
			out = append(out, f)
		}
	}
	return out
}

// Rules lists the rule ids of findings in order
func Rules(findings []types.Finding) []string {
	var out []string
	for _, f := range findings {
		out = append(out, f.Rule)
	}
	return out
}
