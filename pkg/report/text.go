package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/presubmit/pkg/types"
)

// Text renders one line per finding followed by a summary line. Extra
// message lines are indented under their finding.
type Text struct {
	output io.Writer
}

// NewText creates a plain text renderer
func NewText(output io.Writer) *Text {
	return &Text{output: output}
}

// Render writes v
func (r *Text) Render(v *types.Verdict) error {
	var b strings.Builder
	for _, f := range v.Findings {
		first, rest, _ := strings.Cut(f.Message, "\n")
		fmt.Fprintf(&b, "%s: [%s] %s: %s\n", f.Location(), f.Severity, f.Source(), first)
		if rest != "" {
			for _, line := range strings.Split(strings.TrimRight(rest, "\n"), "\n") {
				b.WriteString("    " + line + "\n")
			}
		}
	}
	b.WriteString(summary(v) + "\n")

	_, err := io.WriteString(r.output, b.String())
	return err
}
