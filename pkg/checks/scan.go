package checks

import (
	"context"

	"github.com/arthur-debert/presubmit/pkg/rules"
	"github.com/arthur-debert/presubmit/pkg/types"
)

// Scan builds a scan check running set over the files accepted by pred.
// A nil pred accepts every file; rule predicates still apply.
func Scan(id, description string, set *rules.RuleSet, pred func(*types.ChangedFile) bool) Check {
	scanner := rules.NewScanner(id, set)
	return Check{
		ID:          id,
		Description: description,
		Kind:        KindScan,
		Run: func(ctx context.Context, rc *types.RunContext) ([]types.Finding, error) {
			var findings []types.Finding
			for _, f := range rc.Files {
				if pred != nil && !pred(f) {
					continue
				}
				if err := ctx.Err(); err != nil {
					return findings, err
				}
				for finding := range scanner.Scan(f) {
					findings = append(findings, finding)
				}
			}
			return findings, nil
		},
	}
}
