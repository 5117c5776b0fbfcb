package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/presubmit/pkg/toolrun"
	"github.com/arthur-debert/presubmit/pkg/types"
)

// maxDepsFindings caps the per-line findings of a failed dependency check
const maxDepsFindings = 50

// Checkdeps runs the configured include-rules checker in the repository
// root. A failed run yields one finding per output line; error and fatal
// log markers yield findings even when the checker exits cleanly.
func Checkdeps(runner toolrun.Runner, command []string, timeout time.Duration) Check {
	c := Check{
		ID:          IDCheckdeps,
		Description: "include rules of DEPS files are respected",
		Kind:        KindExternal,
		Run: func(ctx context.Context, rc *types.RunContext) ([]types.Finding, error) {
			if len(command) == 0 {
				return nil, nil
			}
			cmd := toolrun.Command{Name: command[0], Args: command[1:], Dir: rc.Root, Timeout: timeout}
			res, err := runner.Run(ctx, cmd)
			if err != nil {
				return []types.Finding{repoFinding(IDCheckdeps, fmt.Sprintf("%s did not complete: %v", cmd, err))}, nil
			}

			if res.ExitCode != 0 {
				return depsViolations(cmd, res), nil
			}

			var findings []types.Finding
			for _, m := range toolrun.ScanLogMarkers(res.Streams()...) {
				findings = append(findings, repoFinding(IDCheckdeps,
					fmt.Sprintf("%s logged an error on %s line %d: %s", command[0], m.Stream, m.Line, m.Text)))
			}
			return findings, nil
		},
	}
	if len(command) > 0 {
		c.Tools = []string{command[0]}
	}
	return c
}

func depsViolations(cmd toolrun.Command, res toolrun.Result) []types.Finding {
	var findings []types.Finding
	for _, line := range strings.Split(res.Combined, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(findings) == maxDepsFindings {
			findings = append(findings, repoFinding(IDCheckdeps, "more violations were reported; run the checker locally for the full list"))
			break
		}
		findings = append(findings, repoFinding(IDCheckdeps, line))
	}
	if len(findings) == 0 {
		findings = append(findings, repoFinding(IDCheckdeps,
			fmt.Sprintf("%s exited with status %d without reporting a violation", cmd, res.ExitCode)))
	}
	return findings
}

// BuildGraph runs the build-graph verification tool over the repository
func BuildGraph(runner toolrun.Runner, tool string, timeout time.Duration) Check {
	return Check{
		ID:          IDBuildGraph,
		Description: "build graph header dependencies are declared",
		Kind:        KindExternal,
		Tools:       []string{tool},
		Run: func(ctx context.Context, rc *types.RunContext) ([]types.Finding, error) {
			changed := make(map[string]int, len(rc.Files))
			for _, f := range rc.Files {
				changed[f.Path] = len(f.Lines())
			}
			return toolrun.RunBuildCheck(ctx, runner, toolrun.BuildCheck{
				Check:   IDBuildGraph,
				Root:    rc.Root,
				Tool:    tool,
				Timeout: timeout,
				Changed: changed,
			}), nil
		},
	}
}

func repoFinding(check, msg string) types.Finding {
	return types.Finding{
		Check:    check,
		Severity: types.SeverityError,
		Message:  msg,
	}
}
