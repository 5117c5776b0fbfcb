package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/presubmit/pkg/types"
)

// Terminal groups findings by file and styles them with lipgloss
type Terminal struct {
	output io.Writer
	styles Styles
}

// NewTerminal creates a styled renderer using the built-in style sheet
func NewTerminal(output io.Writer) *Terminal {
	return &Terminal{output: output, styles: DefaultStyles()}
}

// WithStyles replaces the style sheet
func (r *Terminal) WithStyles(s Styles) *Terminal {
	r.styles = s
	return r
}

// Render writes v
func (r *Terminal) Render(v *types.Verdict) error {
	var b strings.Builder

	current := "\x00"
	for _, f := range v.Findings {
		if f.Path != current {
			if current != "\x00" {
				b.WriteString("\n")
			}
			current = f.Path
			header := f.Path
			if header == "" {
				header = "<repository>"
			}
			b.WriteString(r.styles.Get("Path").Render(header) + "\n")
		}

		line := ""
		if f.Line > 0 {
			line = fmt.Sprint(f.Line)
		}
		sevStyle := "Warning"
		if f.Severity == types.SeverityError {
			sevStyle = "Error"
		}

		first, rest, _ := strings.Cut(f.Message, "\n")
		fmt.Fprintf(&b, "%s%s %s %s\n",
			r.styles.Get("Line").Render(line),
			r.styles.Get(sevStyle).Render(string(f.Severity)),
			r.styles.Get("Source").Render(f.Source()),
			first)
		if rest != "" {
			b.WriteString(r.styles.Get("Detail").Render(strings.TrimRight(rest, "\n")) + "\n")
		}
	}

	outcome := "Clean"
	switch v.Outcome {
	case types.OutcomeBlock:
		outcome = "Block"
	case types.OutcomeWarn:
		outcome = "Warn"
	}
	b.WriteString(r.styles.Get(outcome).Render(summary(v)) + "\n")

	_, err := io.WriteString(r.output, b.String())
	return err
}
