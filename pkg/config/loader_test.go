package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/exclusion"
	"github.com/arthur-debert/presubmit/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config at an empty directory
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{Root: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, exclusion.DefaultPatterns, cfg.Exclusions.Patterns)
	assert.Equal(t, rules.DefaultLintFilters, cfg.Lint.Filters)
	assert.Equal(t, rules.DefaultMaxLineLength, cfg.Lint.MaxLineLength)
	assert.Equal(t, 1, cfg.Pipeline.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Tools.Timeout.Std())
	assert.Equal(t, "gn", cfg.Tools.GN)
	assert.Equal(t, "clang-format", cfg.Tools.ClangFormat)
	assert.Empty(t, cfg.Tools.Checkdeps)
	assert.Equal(t, []string{"infra/config"}, cfg.RemoteConfig.Dirs)
	assert.Equal(t, "third_party", cfg.ThirdParty.Dir)
	assert.Equal(t, "auto", cfg.Report.Format)
}

func TestLoad_LayersOverride(t *testing.T) {
	home := isolate(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(home, "presubmit", "config.toml"), `
[pipeline]
workers = 2

[lint]
max_line_length = 100
`)
	writeFile(t, filepath.Join(root, ".presubmit.toml"), `
[pipeline]
workers = 3

[exclusions]
patterns = ['gen/.*']
`)
	t.Setenv("PRESUBMIT_TOOLS_TIMEOUT", "30s")
	t.Setenv("PRESUBMIT_CHECKS_DISABLED", "clang-format,gn-format")

	cfg, err := Load(Options{Root: root})
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Pipeline.Workers, "repository file wins over user file")
	assert.Equal(t, 100, cfg.Lint.MaxLineLength, "user file wins over defaults")
	assert.Equal(t, []string{"gen/.*"}, cfg.Exclusions.Patterns, "lists are replaced, not merged")
	assert.Equal(t, 30*time.Second, cfg.Tools.Timeout.Std())
	assert.Equal(t, []string{"clang-format", "gn-format"}, cfg.Checks.Disabled)
	assert.True(t, cfg.Disabled("gn-format"))
	assert.False(t, cfg.Disabled("lint"))
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".presubmit.toml"), "[pipeline]\nworkers = 3\n")
	explicit := filepath.Join(t.TempDir(), "ci.toml")
	writeFile(t, explicit, "[pipeline]\nworkers = 8\n")

	cfg, err := Load(Options{Root: root, File: explicit})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Pipeline.Workers)

	_, err = Load(Options{Root: root, File: filepath.Join(root, "missing.toml")})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_YAMLRepositoryFile(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".presubmit.yaml"), `
pipeline:
  workers: 4
checks:
  warn_on_upload: [lint]
tools:
  timeout: 90s
`)

	cfg, err := Load(Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.True(t, cfg.WarnOnUpload("lint"))
	assert.Equal(t, 90*time.Second, cfg.Tools.Timeout.Std())

	writeFile(t, filepath.Join(root, ".presubmit.toml"), "[pipeline]\nworkers = 2\n")
	cfg, err = Load(Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Pipeline.Workers, "the TOML file takes precedence over the YAML one")
}

func TestLoad_Overrides(t *testing.T) {
	isolate(t)
	cfg, err := Load(Options{Overrides: map[string]interface{}{"report.format": "json"}})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Report.Format)
}

func TestLoad_ParseError(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "presubmit.toml"), "[pipeline\nworkers = ")

	_, err := Load(Options{Root: root})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero workers", "[pipeline]\nworkers = 0\n"},
		{"negative timeout", "[tools]\ntimeout = '-1s'\n"},
		{"bad exclusion", "[exclusions]\npatterns = ['(oops']\n"},
		{"bad filter", "[lint]\nfilters = ['whitespace']\n"},
		{"bad format", "[report]\nformat = 'html'\n"},
		{"zero line length", "[lint]\nmax_line_length = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			root := t.TempDir()
			writeFile(t, filepath.Join(root, ".presubmit.toml"), tt.content)

			_, err := Load(Options{Root: root})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid), "got %v", err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"PRESUBMIT_PIPELINE_WORKERS":      "pipeline.workers",
		"PRESUBMIT_LINT_MAX_LINE_LENGTH":  "lint.max_line_length",
		"PRESUBMIT_REMOTE_CONFIG_DIRS":    "remote_config.dirs",
		"PRESUBMIT_THIRD_PARTY_DIR":       "third_party.dir",
		"PRESUBMIT_CHECKS_WARN_ON_UPLOAD": "checks.warn_on_upload",
		"PRESUBMIT_UNKNOWN":               "unknown",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Pipeline.Workers)
}
