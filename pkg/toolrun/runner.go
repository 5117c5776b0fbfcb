package toolrun

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds an invocation when neither the command nor the
// runner sets one
const DefaultTimeout = 5 * time.Minute

// waitDelay bounds the output reads after the process was killed
const waitDelay = 5 * time.Second

// Command describes one external invocation
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Timeout time.Duration
}

// String renders the command line for logs and messages
func (c Command) String() string {
	var b bytes.Buffer
	b.WriteString(c.Name)
	for _, a := range c.Args {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	return b.String()
}

// Result is what a finished (or killed) invocation produced
type Result struct {
	Stdout   string
	Stderr   string
	Combined string // stdout and stderr interleaved in arrival order
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Streams returns the output streams in a fixed order for log scanning
func (r Result) Streams() []Stream {
	return []Stream{{Name: "stdout", Text: r.Stdout}, {Name: "stderr", Text: r.Stderr}}
}

// Runner executes commands. A non-zero exit status is reported through
// Result.ExitCode, not as an error; errors mean the tool could not be run
// to completion (start failure or timeout) and carry ErrToolInvocation.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands as local processes
type ExecRunner struct {
	// Timeout applies to commands that do not set their own
	Timeout time.Duration

	logger zerolog.Logger
}

// NewExecRunner creates a runner with the given default timeout
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{
		Timeout: timeout,
		logger:  logging.GetLogger("toolrun.runner"),
	}
}

// Run executes cmd and waits for it, killing it when the timeout expires
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = r.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logging.LogCommand(r.logger, c.Name, c.Args)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	combined := &lockedBuffer{}
	cmd.Stdout = io.MultiWriter(&stdout, combined)
	cmd.Stderr = io.MultiWriter(&stderr, combined)

	start := time.Now()
	err := cmd.Run()

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	if ctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		r.logger.Warn().
			Str("command", c.String()).
			Dur("timeout", timeout).
			Msg("Command timed out")
		return res, errors.Newf(errors.ErrToolInvocation, "%s timed out after %s", c.Name, timeout).
			WithDetail("command", c.String())
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			r.logger.Debug().
				Str("command", c.String()).
				Int("exitCode", res.ExitCode).
				Msg("Command exited with non-zero status")
			return res, nil
		}
		return res, errors.Wrapf(err, errors.ErrToolInvocation, "failed to run %s", c.Name).
			WithDetail("command", c.String())
	}

	r.logger.Debug().
		Str("command", c.String()).
		Dur("duration", res.Duration).
		Msg("Command finished")
	return res, nil
}

// lockedBuffer serialises the writes of the stdout and stderr copiers
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
