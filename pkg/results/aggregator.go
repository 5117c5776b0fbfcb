// Package results merges per-check findings into the verdict of a run.
package results

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/gowebpki/jcs"
)

// CheckResult is what one check contributed to a run
type CheckResult struct {
	ID           string
	Kind         string
	WarnOnUpload bool
	Findings     []types.Finding
}

// Aggregator collects check results in registration order and derives the
// verdict from them
type Aggregator struct {
	mode    types.Mode
	results []CheckResult
}

// NewAggregator creates an aggregator for a run in mode
func NewAggregator(mode types.Mode) *Aggregator {
	return &Aggregator{mode: mode}
}

// Add appends the result of the next check in registration order
func (a *Aggregator) Add(r CheckResult) {
	a.results = append(a.results, r)
}

// Verdict concatenates the findings in registration order, sorts them
// stably by path then line and computes the outcome
func (a *Aggregator) Verdict() types.Verdict {
	v := types.Verdict{
		Mode:     a.mode,
		Outcome:  types.OutcomeClean,
		Findings: make([]types.Finding, 0),
		Checks:   make([]types.CheckSummary, 0, len(a.results)),
	}

	blocking, warning := false, false
	for _, r := range a.results {
		summary := types.CheckSummary{ID: r.ID, Kind: r.Kind}
		for _, f := range r.Findings {
			if EffectiveSeverity(a.mode, r.WarnOnUpload, f.Severity) == types.SeverityError {
				summary.Errors++
				blocking = true
			} else {
				summary.Warnings++
				warning = true
			}
		}
		v.Checks = append(v.Checks, summary)
		v.Findings = append(v.Findings, r.Findings...)
	}

	sort.SliceStable(v.Findings, func(i, j int) bool {
		a, b := v.Findings[i], v.Findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Line < b.Line
	})

	switch {
	case blocking:
		v.Outcome = types.OutcomeBlock
		v.Overridable = a.mode == types.ModeUpload
	case warning:
		v.Outcome = types.OutcomeWarn
	}
	return v
}

// Aggregate builds the verdict of perCheck, given in registration order,
// and stamps it with its digest
func Aggregate(mode types.Mode, perCheck []CheckResult) (types.Verdict, error) {
	a := NewAggregator(mode)
	for _, r := range perCheck {
		a.Add(r)
	}
	v := a.Verdict()

	digest, err := Digest(v)
	if err != nil {
		return v, err
	}
	v.Digest = digest
	return v, nil
}

// EffectiveSeverity applies the mode policy: errors of a check that only
// warns on upload count as warnings in upload mode
func EffectiveSeverity(mode types.Mode, warnOnUpload bool, sev types.Severity) types.Severity {
	if sev == types.SeverityError && warnOnUpload && mode == types.ModeUpload {
		return types.SeverityWarning
	}
	return sev
}

// Digest hashes the canonical (RFC 8785) JSON form of v, ignoring any
// digest already set
func Digest(v types.Verdict) (string, error) {
	v.Digest = ""
	raw, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode verdict")
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to canonicalize verdict")
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
