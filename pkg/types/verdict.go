package types

// Outcome is the pipeline's decision
type Outcome string

const (
	// OutcomeClean means no findings at all
	OutcomeClean Outcome = "clean"

	// OutcomeWarn means only non-blocking findings
	OutcomeWarn Outcome = "warn"

	// OutcomeBlock means at least one blocking finding
	OutcomeBlock Outcome = "block"
)

// CheckSummary counts the findings one check contributed
type CheckSummary struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
}

// Verdict is the ordered findings of a run plus the derived outcome
type Verdict struct {
	Mode     Mode           `json:"mode"`
	Outcome  Outcome        `json:"outcome"`
	Findings []Finding      `json:"findings"`
	Checks   []CheckSummary `json:"checks"`

	// Overridable is set when a blocking outcome may be overridden by a human
	Overridable bool `json:"overridable"`

	// Digest is a hash of the canonical JSON form of the fields above
	Digest string `json:"digest,omitempty"`
}

// Blocked reports whether the outcome is block
func (v *Verdict) Blocked() bool {
	return v.Outcome == OutcomeBlock
}

// Fatal reports whether the verdict must reject the operation outright
func (v *Verdict) Fatal() bool {
	return v.Blocked() && !v.Overridable
}
