package exclusion_test

import (
	"testing"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/exclusion"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Match(t *testing.T) {
	set := exclusion.Default()

	tests := []struct {
		path string
		want bool
	}{
		{"third_party/boringssl/src/ssl.c", true},
		{"third_party/boringssl/BUILD.gn", false},
		{"third_party/chromium_quic/src/BUILD.gn", true},
		{"out/Default/gen/foo.cc", true},
		{"platform/out/foo.h", true},
		{"build/Release/foo.o", true},
		{"fixes.patch", true},
		{"changes.diff", true},
		{"cast/common/foo.cc", false},
		{"outer/foo.cc", false},
		{"BUILD.gn", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Match(tt.path))
		})
	}
}

func TestMatch_AnchoredAtStart(t *testing.T) {
	set := exclusion.MustCompile([]string{`docs/`})
	assert.True(t, set.Match("docs/a.md"))
	assert.False(t, set.Match("src/docs/a.md"))
}

func TestMatch_NormalizesBackslashes(t *testing.T) {
	set := exclusion.MustCompile([]string{`gen/.*`})
	assert.True(t, set.Match(`gen\a.cc`))
}

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := exclusion.Compile([]string{`ok`, `(unclosed`})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestReplace_DropsPreviousPatterns(t *testing.T) {
	replaced, err := exclusion.Default().Replace([]string{`docs/.*`})
	require.NoError(t, err)

	assert.Equal(t, []string{`docs/.*`}, replaced.Patterns())
	assert.False(t, replaced.Match("third_party/x/y.cc"))
	assert.True(t, replaced.Match("docs/index.md"))
}

func TestFilter(t *testing.T) {
	files := []*types.ChangedFile{
		types.NewChangedFile("a.cc", "/r/a.cc", nil),
		types.NewChangedFile("third_party/x/x.cc", "/r/third_party/x/x.cc", nil),
		types.NewChangedFile("b.h", "/r/b.h", nil),
	}

	kept, excluded := exclusion.Default().Filter(files)
	require.Len(t, kept, 2)
	assert.Equal(t, "a.cc", kept[0].Path)
	assert.Equal(t, "b.h", kept[1].Path)
	require.Len(t, excluded, 1)
	assert.Equal(t, "third_party/x/x.cc", excluded[0].Path)

	kept, excluded = exclusion.Empty().Filter(files)
	assert.Len(t, kept, 3)
	assert.Empty(t, excluded)
}
