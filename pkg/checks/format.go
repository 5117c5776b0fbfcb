package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/presubmit/pkg/toolrun"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/pmezard/go-difflib/difflib"
)

// diffContext is the number of unchanged lines around each hunk
const diffContext = 2

// ClangFormat reports C/C++ files that clang-format would change, with the
// unified diff of the change in the message
func ClangFormat(runner toolrun.Runner, tool string, timeout time.Duration) Check {
	return Check{
		ID:          IDClangFormat,
		Description: "C/C++ files are clang-formatted",
		Kind:        KindExternal,
		Tools:       []string{tool},
		Run: func(ctx context.Context, rc *types.RunContext) ([]types.Finding, error) {
			var findings []types.Finding
			for _, f := range rc.FilesWhere(func(f *types.ChangedFile) bool { return f.IsCpp() && !f.Binary }) {
				res, err := runner.Run(ctx, toolrun.Command{
					Name:    tool,
					Args:    []string{"--style=file", f.AbsPath},
					Dir:     rc.Root,
					Timeout: timeout,
				})
				if finding, failed := toolFailure(IDClangFormat, f, tool, res, err); failed {
					findings = append(findings, finding)
					continue
				}
				if res.Stdout == string(f.Content()) {
					continue
				}

				line, diff, err := unifiedDiff(f, res.Stdout)
				if err != nil {
					return findings, err
				}
				findings = append(findings, types.Finding{
					Check:    IDClangFormat,
					Path:     f.Path,
					Line:     line,
					Severity: types.SeverityError,
					Message:  fmt.Sprintf("File is not clang-formatted, run `%s -i --style=file %s`\n%s", tool, f.Path, diff),
				})
			}
			return findings, nil
		},
	}
}

// unifiedDiff returns the first changed line of f and the diff to formatted
func unifiedDiff(f *types.ChangedFile, formatted string) (int, string, error) {
	a := difflib.SplitLines(string(f.Content()))
	b := difflib.SplitLines(formatted)

	line := 0
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		if op.Tag != 'e' {
			line = op.I1 + 1
			break
		}
	}
	if line > len(f.Lines()) {
		line = 0
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: f.Path,
		ToFile:   f.Path + " (formatted)",
		Context:  diffContext,
	})
	return line, strings.TrimRight(diff, "\n"), err
}

// gnFormatNeedsChange is the exit status of `gn format --dry-run` for a file
// that would be reformatted
const gnFormatNeedsChange = 2

// GNFormat reports build files that `gn format` would change
func GNFormat(runner toolrun.Runner, tool string, timeout time.Duration) Check {
	return Check{
		ID:          IDGNFormat,
		Description: "GN build files are gn-formatted",
		Kind:        KindExternal,
		Tools:       []string{tool},
		Run: func(ctx context.Context, rc *types.RunContext) ([]types.Finding, error) {
			var findings []types.Finding
			for _, f := range rc.FilesWhere(func(f *types.ChangedFile) bool { return f.Kind == types.FileKindBuild }) {
				res, err := runner.Run(ctx, toolrun.Command{
					Name:    tool,
					Args:    []string{"format", "--dry-run", f.AbsPath},
					Dir:     rc.Root,
					Timeout: timeout,
				})
				if err == nil && res.ExitCode == gnFormatNeedsChange {
					findings = append(findings, types.Finding{
						Check:    IDGNFormat,
						Path:     f.Path,
						Severity: types.SeverityError,
						Message:  fmt.Sprintf("File is not gn-formatted, run `%s format %s`", tool, f.Path),
					})
					continue
				}
				if finding, failed := toolFailure(IDGNFormat, f, tool, res, err); failed {
					findings = append(findings, finding)
				}
			}
			return findings, nil
		},
	}
}

// toolFailure turns an invocation error or unexpected exit status into a
// blocking finding on f
func toolFailure(check string, f *types.ChangedFile, tool string, res toolrun.Result, err error) (types.Finding, bool) {
	var msg string
	switch {
	case err != nil:
		msg = fmt.Sprintf("%s could not check this file: %v", tool, err)
	case res.ExitCode != 0:
		msg = fmt.Sprintf("%s exited with status %d", tool, res.ExitCode)
		if out := strings.TrimSpace(res.Stderr); out != "" {
			msg += ": " + out
		}
	default:
		return types.Finding{}, false
	}
	return types.Finding{
		Check:    check,
		Path:     f.Path,
		Severity: types.SeverityError,
		Message:  msg,
	}, true
}
