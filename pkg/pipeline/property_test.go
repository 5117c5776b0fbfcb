package pipeline_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arthur-debert/presubmit/pkg/checks"
	"github.com/arthur-debert/presubmit/pkg/config"
	"github.com/arthur-debert/presubmit/pkg/pipeline"
	"github.com/arthur-debert/presubmit/pkg/testutil"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var fragments = []string{
	"Foo(Foo&&) {}",
	"Foo(Foo&&) noexcept {}",
	"  OSP_CHECK(x);",
	"  OSP_DCHECK(x);",
	`  const char* s = "OSP_DCHECK(x);";`,
	"// TODO fix this",
	"int y = 1;   ",
	"\tint z = 2;",
	"DO NOT " + "SUBMIT",
	"#include <thread>",
	"key: [unterminated",
	"key: value",
	"",
}

var paths = []string{"src/a.h", "src/a.cc", "BUILD.gn", "infra/config/svc.yaml", "docs/notes.txt"}

// buildFiles turns generated indices into a changed-file set
func buildFiles(picks []int) map[string]string {
	files := make(map[string]string)
	for i, pick := range picks {
		p := paths[i%len(paths)]
		files[p] += fragments[pick%len(fragments)] + "\n"
	}
	return files
}

func propertyPipeline() *pipeline.Pipeline {
	cfg := config.Default()
	cfg.Checks.Disabled = []string{checks.IDClangFormat, checks.IDGNFormat, checks.IDBuildGraph, checks.IDThirdPartyLicenses}
	cfg.Checks.WarnOnUpload = []string{checks.IDLint}
	p, err := pipeline.FromConfig(cfg, testutil.NewFakeRunner(nil))
	if err != nil {
		panic(err)
	}
	return p
}

func TestUploadAndCommitAgreeOnSharedChecks(t *testing.T) {
	p := propertyPipeline()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("shared checks produce identical findings in both modes", prop.ForAll(
		func(picks []int) bool {
			files := testutil.InMemory(buildFiles(picks))

			upload, err := p.CheckOnUpload(context.Background(), files, "/repo")
			if err != nil {
				return false
			}
			commit, err := p.CheckOnCommit(context.Background(), files, "/repo")
			if err != nil {
				return false
			}

			var shared []types.Finding
			for _, f := range upload.Findings {
				if f.Check != checks.IDRemoteConfig {
					shared = append(shared, f)
				}
			}
			return fmt.Sprint(shared) == fmt.Sprint(commit.Findings) && len(shared) == len(commit.Findings)
		},
		gen.SliceOf(gen.IntRange(0, len(fragments)-1)),
	))

	properties.TestingRun(t)
}

func TestRunsAreIdempotent(t *testing.T) {
	p := propertyPipeline()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("two runs yield the same verdict and digest", prop.ForAll(
		func(picks []int, upload bool) bool {
			mode := types.ModeCommit
			if upload {
				mode = types.ModeUpload
			}
			files := testutil.InMemory(buildFiles(picks))

			first, err := p.Run(context.Background(), mode, files, "/repo")
			if err != nil {
				return false
			}
			second, err := p.Run(context.Background(), mode, files, "/repo")
			if err != nil {
				return false
			}
			return first.Digest != "" &&
				first.Digest == second.Digest &&
				first.Outcome == second.Outcome &&
				fmt.Sprint(first.Findings) == fmt.Sprint(second.Findings)
		},
		gen.SliceOf(gen.IntRange(0, len(fragments)-1)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
