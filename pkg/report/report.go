// Package report renders verdicts for humans and machines.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/types"
)

// Renderer writes a verdict in one format
type Renderer interface {
	Render(v *types.Verdict) error
}

// New creates a renderer for format writing to output. Auto detection
// needs output to be a file; any other writer gets plain text.
func New(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return New(DetectFormat(file), output)
		}
		return New(FormatText, output)
	case FormatTerminal:
		return NewTerminal(output), nil
	case FormatText:
		return NewText(output), nil
	case FormatJSON:
		return NewJSON(output), nil
	case FormatJUnit:
		return NewJUnit(output), nil
	default:
		return nil, errors.Newf(errors.ErrUsage, "unknown format: %v", format)
	}
}

// counts sums the effective severities recorded per check
func counts(v *types.Verdict) (errs, warnings int) {
	for _, c := range v.Checks {
		errs += c.Errors
		warnings += c.Warnings
	}
	return errs, warnings
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// summary is the one-line outcome shared by the human formats
func summary(v *types.Verdict) string {
	errs, warnings := counts(v)
	line := fmt.Sprintf("presubmit %s: %s (%s, %s)", v.Mode, v.Outcome, plural(errs, "error"), plural(warnings, "warning"))
	if v.Overridable {
		line += ", override allowed"
	}
	return line
}
