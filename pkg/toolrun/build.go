package toolrun

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/logging"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/dlclark/regexp2"
)

// BuildError is one "ERROR at <location>: <summary>" block of build tool output
type BuildError struct {
	Location string
	Summary  string
	Body     string
}

// buildErrorBlock captures a block up to a blank line followed by an
// underscore rule, or the end of the output
var buildErrorBlock = func() *regexp2.Regexp {
	re := regexp2.MustCompile(`(?ms)^ERROR at (?<location>\S+): (?<summary>[^\n]*)(?<body>.*?)(?=\n\n_+|\z)`, regexp2.None)
	re.MatchTimeout = 5 * time.Second
	return re
}()

// ParseBuildErrors extracts the error blocks of build tool output in order
func ParseBuildErrors(output string) ([]BuildError, error) {
	output = strings.ReplaceAll(output, "\r\n", "\n")

	var blocks []BuildError
	m, err := buildErrorBlock.FindStringMatch(output)
	for err == nil && m != nil {
		blocks = append(blocks, BuildError{
			Location: m.GroupByName("location").String(),
			Summary:  strings.TrimSpace(m.GroupByName("summary").String()),
			Body:     strings.Trim(m.GroupByName("body").String(), "\n"),
		})
		m, err = buildErrorBlock.FindNextMatch(m)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrToolOutputParse, "failed to parse build tool output")
	}
	return blocks, nil
}

// SourcePosition splits a build location such as //foo/BUILD.gn:12:3 into a
// repository relative path and line. ok is false when the location does not
// carry a line.
func (e BuildError) SourcePosition() (path string, line int, ok bool) {
	loc := strings.TrimPrefix(e.Location, "//")
	parts := strings.Split(loc, ":")
	if len(parts) < 2 {
		return loc, 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 1 {
		return parts[0], 0, false
	}
	return parts[0], n, true
}

// Message renders the block the way it is reported in a finding
func (e BuildError) Message() string {
	msg := fmt.Sprintf("ERROR at %s: %s", e.Location, e.Summary)
	if e.Body != "" {
		msg += "\n" + e.Body
	}
	return msg
}

// BuildCheck configures RunBuildCheck
type BuildCheck struct {
	// Check is the id findings are attributed to
	Check string

	// Root is the directory the tool runs in
	Root string

	// Tool is the build-graph tool, "gn" by default
	Tool string

	// Timeout bounds the invocation; zero uses the runner default
	Timeout time.Duration

	// Changed maps the repository relative paths of the run to their line
	// counts. Errors located on an existing line of one of them are
	// reported at that position; all others are repository-level findings.
	Changed map[string]int
}

// removeAll is swapped out in tests to simulate cleanup failures
var removeAll = os.RemoveAll

// RunBuildCheck runs `<tool> gen --check <tmpdir>` in the root and returns
// one blocking finding per error block. A clean exit without error blocks
// yields no findings; a failed run without parseable blocks yields exactly
// one. The temporary output directory is removed on every exit path.
func RunBuildCheck(ctx context.Context, runner Runner, bc BuildCheck) []types.Finding {
	logger := logging.GetLogger("toolrun.build")
	tool := bc.Tool
	if tool == "" {
		tool = "gn"
	}

	outDir, err := os.MkdirTemp("", "presubmit-gn-")
	if err != nil {
		return []types.Finding{bc.generic(fmt.Sprintf("could not create the %s output directory: %v", tool, err))}
	}
	defer func() {
		if err := removeAll(outDir); err != nil {
			cleanupErr := errors.Wrapf(err, errors.ErrResourceCleanup, "failed to remove %s", outDir)
			logger.Warn().Err(cleanupErr).Str("dir", outDir).Msg("Could not remove build output directory")
		}
	}()

	cmd := Command{
		Name:    tool,
		Args:    []string{"gen", "--check", outDir},
		Dir:     bc.Root,
		Timeout: bc.Timeout,
	}
	res, err := runner.Run(ctx, cmd)
	if err != nil {
		return []types.Finding{bc.generic(fmt.Sprintf("%s gen --check did not complete: %v", tool, err))}
	}

	blocks, err := ParseBuildErrors(res.Combined)
	if err != nil {
		return []types.Finding{bc.generic(fmt.Sprintf("%s gen --check output could not be parsed: %v", tool, err))}
	}

	if len(blocks) == 0 {
		if res.ExitCode != 0 {
			logger.Debug().Int("exitCode", res.ExitCode).Msg("Build check failed without error blocks")
			return []types.Finding{bc.generic(fmt.Sprintf("%s gen --check exited with status %d:\n%s",
				tool, res.ExitCode, tail(res.Combined, 20)))}
		}
		return nil
	}

	findings := make([]types.Finding, 0, len(blocks))
	for _, b := range blocks {
		findings = append(findings, bc.finding(b))
	}
	return findings
}

func (bc BuildCheck) finding(b BuildError) types.Finding {
	f := types.Finding{
		Check:    bc.Check,
		Severity: types.SeverityError,
		Message:  b.Message(),
	}
	if path, line, ok := b.SourcePosition(); ok && line >= 1 && line <= bc.Changed[path] {
		f.Path = path
		f.Line = line
	}
	return f
}

func (bc BuildCheck) generic(msg string) types.Finding {
	return types.Finding{
		Check:    bc.Check,
		Severity: types.SeverityError,
		Message:  msg,
	}
}

// tail returns the last n non-empty lines of s
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
