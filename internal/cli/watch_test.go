package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/presubmit/pkg/exclusion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Batches(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "out"), 0755))

	skip := func(rel string) bool { return strings.HasPrefix(rel, "out") }
	w := newWatcher(root, 200*time.Millisecond, skip)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.run(ctx, func(paths []string) error {
			batches <- paths
			return nil
		})
	}()

	// Give the watcher time to register directories
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "index"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "out", "gen.cc"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.cc"), []byte("int a;\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.h"), []byte("int b;\n"), 0644))

	select {
	case batch := <-batches:
		assert.Equal(t, []string{"b.h", "src/a.cc"}, batch)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch received")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_KeptFilesInsideExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "third_party", "zlib"), 0755))

	w := newWatcher(root, 200*time.Millisecond, exclusion.Default().Match)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 4)
	go func() {
		_ = w.run(ctx, func(paths []string) error {
			batches <- paths
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "third_party", "zlib", "zlib.c"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "third_party", "zlib", "BUILD.gn"), []byte("x"), 0644))

	select {
	case batch := <-batches:
		assert.Equal(t, []string{"third_party/zlib/BUILD.gn"}, batch)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch received")
	}
}

func TestWatcher_Relative(t *testing.T) {
	root := filepath.FromSlash("/repo")
	w := newWatcher(root, time.Second, nil)

	rel, ok := w.relative(filepath.Join(root, "src", "a.cc"))
	assert.True(t, ok)
	assert.Equal(t, "src/a.cc", rel)

	_, ok = w.relative(filepath.Join(root, ".git", "HEAD"))
	assert.False(t, ok)

	_, ok = w.relative(filepath.FromSlash("/elsewhere/x.cc"))
	assert.False(t, ok)

	_, ok = w.relative(root)
	assert.False(t, ok)

	excluding := newWatcher(root, time.Second, exclusion.Default().Match)
	rel, ok = excluding.relative(filepath.Join(root, "third_party", "zlib"))
	assert.True(t, ok, "excluded directories are still walked")
	assert.Equal(t, "third_party/zlib", rel)
}
