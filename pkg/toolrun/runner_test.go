package toolrun

import (
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Run(t *testing.T) {
	r := NewExecRunner(10 * time.Second)

	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 3"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err, "a non-zero exit is not an invocation error")
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Contains(t, res.Combined, "out\n")
	assert.Contains(t, res.Combined, "err\n")
	assert.False(t, res.TimedOut)
}

func TestExecRunner_Timeout(t *testing.T) {
	r := NewExecRunner(0)

	res, err := r.Run(context.Background(), Command{
		Name:    "sleep",
		Args:    []string{"10"},
		Timeout: 100 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolInvocation))
	assert.True(t, res.TimedOut)
}

func TestExecRunner_MissingTool(t *testing.T) {
	_, err := NewExecRunner(0).Run(context.Background(), Command{Name: "presubmit-no-such-tool"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolInvocation))
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "gn gen --check /tmp/out", Command{Name: "gn", Args: []string{"gen", "--check", "/tmp/out"}}.String())
}
