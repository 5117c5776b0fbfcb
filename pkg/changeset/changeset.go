// Package changeset turns the paths touched by a revision into the
// immutable file snapshots checks work on.
package changeset

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/logging"
	"github.com/arthur-debert/presubmit/pkg/types"
)

// EnvRoot overrides repository root discovery
const EnvRoot = "PRESUBMIT_ROOT"

// rootMarkers identify a repository root, nearest first
var rootMarkers = []string{".gn", ".git"}

// Load snapshots paths, given relative to root or absolute, as changed
// files. Paths are normalized to slash-separated root-relative form,
// de-duplicated and sorted. Missing paths are deleted files and are skipped.
func Load(root string, paths []string) ([]*types.ChangedFile, error) {
	logger := logging.GetLogger("changeset")

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve root %s", root)
	}

	rels, err := Normalize(absRoot, paths)
	if err != nil {
		return nil, err
	}

	files := make([]*types.ChangedFile, 0, len(rels))
	for _, rel := range rels {
		abs := filepath.Join(absRoot, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		switch {
		case os.IsNotExist(err):
			logger.Debug().Str("path", rel).Msg("Skipping deleted file")
			continue
		case err != nil:
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", rel)
		case info.IsDir():
			logger.Debug().Str("path", rel).Msg("Skipping directory")
			continue
		}

		content, err := os.ReadFile(abs)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", rel)
		}
		files = append(files, types.NewChangedFile(rel, abs, content))
	}

	logger.Debug().Int("requested", len(paths)).Int("loaded", len(files)).Msg("Loaded changed files")
	return files, nil
}

// Normalize converts paths to sorted, unique, slash-separated paths
// relative to absRoot. A path outside the root is an error.
func Normalize(absRoot string, paths []string) ([]string, error) {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(absRoot, filepath.FromSlash(p))
		}
		rel, err := filepath.Rel(absRoot, filepath.Clean(abs))
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, errors.Newf(errors.ErrInvalidInput, "path %s is outside the repository root %s", p, absRoot).
				WithDetail("path", p)
		}
		rel = filepath.ToSlash(rel)
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ReadList reads one path per line. Blank lines and lines starting with #
// are ignored.
func ReadList(r io.Reader) ([]string, error) {
	var paths []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to read path list")
	}
	return paths, nil
}

// FindRoot determines the repository root in priority order:
// 1. PRESUBMIT_ROOT environment variable (if set)
// 2. Nearest ancestor of start holding a .gn or .git entry
// 3. start itself
func FindRoot(start string) (string, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		return filepath.Abs(root)
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve %s", start)
	}

	for dir := abs; ; {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return abs, nil
}
