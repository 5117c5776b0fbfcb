package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/presubmit/internal/cli"
	"github.com/arthur-debert/presubmit/pkg/changeset"
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/testutil"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repoConfig = `[checks]
disabled = ["clang-format", "gn-format", "build-graph", "license-header"]
`

func setupRepo(t *testing.T, files map[string]string) *testutil.Repo {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	t.Setenv(changeset.EnvRoot, "")

	all := map[string]string{".presubmit.toml": repoConfig}
	for k, v := range files {
		all[k] = v
	}
	return testutil.NewRepo(t).Write(all)
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommit_BlocksOnHeaderMoveConstructor(t *testing.T) {
	repo := setupRepo(t, map[string]string{"foo.h": "Foo(Foo&&) {}\n"})

	out, _, err := execute(t, "", "--root", repo.Root, "commit", "foo.h")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBlocked))
	assert.Equal(t, 1, errors.ExitCode(err))
	assert.Contains(t, out, "foo.h:1: [error] lint/runtime/noexcept:")
	assert.Contains(t, out, "presubmit commit: block (1 error, 0 warnings)")
}

func TestCommit_CleanSource(t *testing.T) {
	repo := setupRepo(t, map[string]string{"foo.cc": "Foo(Foo&&) {}\n"})

	out, _, err := execute(t, "", "--root", repo.Root, "commit", "foo.cc")
	require.NoError(t, err)
	assert.Equal(t, "presubmit commit: clean (0 errors, 0 warnings)\n", out)
}

func TestUpload_AllowOverride(t *testing.T) {
	repo := setupRepo(t, map[string]string{"foo.h": "Foo(Foo&&) {}\n"})

	_, _, err := execute(t, "", "--root", repo.Root, "upload", "foo.h")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBlocked))

	out, errOut, err := execute(t, "", "--root", repo.Root, "upload", "--allow-override", "foo.h")
	require.NoError(t, err)
	assert.Contains(t, out, "override allowed")
	assert.Contains(t, errOut, "overridden")
}

func TestCommit_FilesFromStdinAndJSON(t *testing.T) {
	repo := setupRepo(t, map[string]string{
		"a.h":  "Foo(Foo&&) {}\n",
		"b.cc": "int x;\n",
	})

	out, _, err := execute(t, "b.cc\n# comment\na.h\n", "--root", repo.Root, "--format", "json", "commit", "--files-from", "-")
	require.Error(t, err)

	var v types.Verdict
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, types.OutcomeBlock, v.Outcome)
	assert.Equal(t, types.ModeCommit, v.Mode)
	assert.NotEmpty(t, v.Digest)
	require.Len(t, v.Findings, 1)
	assert.Equal(t, "a.h", v.Findings[0].Path)
}

func TestUsageErrors(t *testing.T) {
	repo := setupRepo(t, nil)

	tests := []struct {
		name string
		args []string
	}{
		{"no command", []string{}},
		{"unknown command", []string{"frobnicate"}},
		{"no files", []string{"--root", repo.Root, "commit"}},
		{"unknown flag", []string{"commit", "--no-such-flag"}},
		{"explain without id", []string{"explain"}},
		{"bad format", []string{"--root", repo.Root, "--format", "html", "commit", "x.cc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, 2, errors.ExitCode(err), err.Error())
		})
	}
}

func TestMissingTool(t *testing.T) {
	repo := setupRepo(t, map[string]string{"foo.cc": "int x;\n"})
	require.NoError(t, os.WriteFile(filepath.Join(repo.Root, "strict.toml"),
		[]byte("[tools]\nclang_format = \"no-such-clang-format-binary\"\n"), 0644))

	_, _, err := execute(t, "", "--root", repo.Root, "--config", filepath.Join(repo.Root, "strict.toml"), "commit", "foo.cc")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolMissing))
}

func TestRules(t *testing.T) {
	repo := setupRepo(t, nil)

	out, _, err := execute(t, "", "--root", repo.Root, "rules")
	require.NoError(t, err)
	for _, want := range []string{"lint", "remote-config", "runtime/noexcept", "build/c++11", "readability/todo"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "clang-format", "disabled checks are not listed")
}

func TestExplain(t *testing.T) {
	setupRepo(t, nil)

	out, _, err := execute(t, "", "explain", "runtime/noexcept")
	require.NoError(t, err)
	assert.Contains(t, out, "noexcept")

	_, _, err = execute(t, "", "explain", "no/such-rule")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestGenConfig(t *testing.T) {
	repo := setupRepo(t, nil)

	out, _, err := execute(t, "", "--root", repo.Root, "genconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "[pipeline]")
	assert.Contains(t, out, "clang-format")

	other := testutil.NewRepo(t)
	out, _, err = execute(t, "", "--root", other.Root, "genconfig", "-w")
	require.NoError(t, err)
	assert.Contains(t, out, ".presubmit.toml")
	assert.True(t, testutil.FileExists(t, filepath.Join(other.Root, ".presubmit.toml")))

	_, _, err = execute(t, "", "--root", other.Root, "genconfig", "-w")
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
}

func TestGenConfig_Defaults(t *testing.T) {
	repo := setupRepo(t, map[string]string{".presubmit.toml": "[pipeline]\nworkers = 4\n"})

	out, _, err := execute(t, "", "--root", repo.Root, "genconfig", "--defaults")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# presubmit defaults."))
	assert.Contains(t, out, "workers = 1")
	assert.NotContains(t, out, "workers = 4")
}

func TestTerminalStyleSheet(t *testing.T) {
	files := map[string]string{
		".presubmit.toml": repoConfig + "[report]\nstyles = \"styles.yaml\"\n",
		"styles.yaml":     "styles:\n  Path:\n    marginLeft: 4\n",
		"foo.h":           "class Foo {\n  Foo(Foo&&) {}\n};\n",
	}
	repo := setupRepo(t, files)

	out, _, err := execute(t, "", "--root", repo.Root, "--format", "term", "commit", "foo.h")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBlocked))
	assert.Contains(t, out, "    foo.h")

	require.NoError(t, os.Remove(filepath.Join(repo.Root, "styles.yaml")))
	_, _, err = execute(t, "", "--root", repo.Root, "--format", "term", "commit", "foo.h")
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))

	_, _, err = execute(t, "", "--root", repo.Root, "--format", "text", "commit", "foo.h")
	assert.True(t, errors.IsErrorCode(err, errors.ErrBlocked), "text output ignores the style sheet")
}

func TestVersion(t *testing.T) {
	setupRepo(t, nil)

	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "presubmit version dev")
}
