package changeset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/presubmit/pkg/changeset"
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/testutil"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	repo := testutil.NewRepo(t).Write(map[string]string{
		"src/foo.h":   "Foo(Foo&&) {}\n",
		"src/foo.cc":  "int x;\n",
		"BUILD.gn":    "group(\"all\") {}\n",
		"blob.bin":    "a\x00b",
		"docs/README": "hello\n",
	})

	files, err := changeset.Load(repo.Root, []string{
		"src/foo.h",
		filepath.Join(repo.Root, "src", "foo.cc"),
		"./src/foo.h",
		"BUILD.gn",
		"deleted.cc",
		"blob.bin",
		"docs",
	})
	require.NoError(t, err)

	var got []string
	for _, f := range files {
		got = append(got, f.Path)
	}
	assert.Equal(t, []string{"BUILD.gn", "blob.bin", "src/foo.cc", "src/foo.h"}, got)

	byPath := make(map[string]*types.ChangedFile)
	for _, f := range files {
		byPath[f.Path] = f
	}
	assert.Equal(t, types.FileKindHeader, byPath["src/foo.h"].Kind)
	assert.Equal(t, types.FileKindBuild, byPath["BUILD.gn"].Kind)
	assert.True(t, byPath["blob.bin"].Binary)
	assert.Empty(t, byPath["blob.bin"].Lines())
	assert.Equal(t, []string{"Foo(Foo&&) {}"}, byPath["src/foo.h"].Lines())
	assert.Equal(t, filepath.Join(repo.Root, "src", "foo.h"), byPath["src/foo.h"].AbsPath)
}

func TestLoad_OutsideRoot(t *testing.T) {
	repo := testutil.NewRepo(t)

	_, err := changeset.Load(repo.Root, []string{"../escape.cc"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestNormalize(t *testing.T) {
	root := filepath.FromSlash("/work/repo")
	got, err := changeset.Normalize(root, []string{
		"b.cc",
		filepath.FromSlash("/work/repo/a/x.h"),
		"a/../b.cc",
		"",
		"a/x.h",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/x.h", "b.cc"}, got)

	_, err = changeset.Normalize(root, []string{"."})
	assert.Error(t, err)
}

func TestReadList(t *testing.T) {
	in := "src/a.cc\n\n# comment\n  src/b.h  \r\n"
	got, err := changeset.ReadList(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.cc", "src/b.h"}, got)
}

func TestFindRoot(t *testing.T) {
	t.Setenv(changeset.EnvRoot, "")

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gn"), []byte("buildconfig = \"//BUILDCONFIG.gn\"\n"), 0644))
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0755))

	got, err := changeset.FindRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	t.Setenv(changeset.EnvRoot, nested)
	got, err = changeset.FindRoot(root)
	require.NoError(t, err)
	assert.Equal(t, nested, got)
}
