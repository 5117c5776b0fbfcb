package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/presubmit/pkg/types"
)

// CreateFile creates a file with the given content in the specified directory.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))

	// Create parent directories if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}

	return path
}

// FileExists checks if a file exists and is not a directory.
func FileExists(t *testing.T, path string) bool {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

// Repo is a temporary repository root
type Repo struct {
	t    *testing.T
	Root string
}

// NewRepo creates an empty repository in a test temp dir
func NewRepo(t *testing.T) *Repo {
	t.Helper()
	return &Repo{t: t, Root: t.TempDir()}
}

// Write creates files from a path to content map and returns the repo
func (r *Repo) Write(files map[string]string) *Repo {
	r.t.Helper()
	for name, content := range files {
		CreateFile(r.t, r.Root, name, content)
	}
	return r
}

// Changed snapshots the given repository relative paths, sorted by path
func (r *Repo) Changed(paths ...string) []*types.ChangedFile {
	r.t.Helper()

	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	files := make([]*types.ChangedFile, 0, len(sorted))
	for _, p := range sorted {
		abs := filepath.Join(r.Root, filepath.FromSlash(p))
		content, err := os.ReadFile(abs)
		if err != nil {
			r.t.Fatalf("Failed to read %s: %v", abs, err)
		}
		files = append(files, types.NewChangedFile(p, abs, content))
	}
	return files
}

// RunContext builds a run context over the given changed paths
func (r *Repo) RunContext(mode types.Mode, paths ...string) *types.RunContext {
	r.t.Helper()
	return &types.RunContext{
		ID:    "test-run",
		Mode:  mode,
		Root:  r.Root,
		Files: r.Changed(paths...),
	}
}

// InMemory builds changed files without touching the disk
func InMemory(files map[string]string) []*types.ChangedFile {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]*types.ChangedFile, 0, len(paths))
	for _, p := range paths {
		out = append(out, types.NewChangedFile(p, filepath.Join("/repo", p), []byte(files[p])))
	}
	return out
}
