package types

import (
	"fmt"
	"strings"
)

// Severity is the severity a finding is reported with
type Severity string

const (
	// SeverityError blocks the revision
	SeverityError Severity = "error"

	// SeverityWarning is reported but never blocks
	SeverityWarning Severity = "warning"
)

// Finding is one reported issue. Line is 1-based; 0 marks a whole-file
// finding, and an empty Path marks a repository-level finding.
type Finding struct {
	Check    string   `json:"check"`
	Rule     string   `json:"rule,omitempty"`
	Path     string   `json:"path,omitempty"`
	Line     int      `json:"line"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Location renders path:line, omitting the parts that are unset
func (f Finding) Location() string {
	switch {
	case f.Path == "":
		return "<repository>"
	case f.Line == 0:
		return f.Path
	default:
		return fmt.Sprintf("%s:%d", f.Path, f.Line)
	}
}

// Source renders check/rule, or just the check when no rule is involved
func (f Finding) Source() string {
	if f.Rule == "" {
		return f.Check
	}
	return f.Check + "/" + f.Rule
}

// String renders the finding on a single line
func (f Finding) String() string {
	msg := f.Message
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return fmt.Sprintf("%s: [%s] %s: %s", f.Location(), f.Severity, f.Source(), msg)
}
