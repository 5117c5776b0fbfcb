package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/presubmit/pkg/changeset"
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/logging"
	"github.com/arthur-debert/presubmit/pkg/pipeline"
	"github.com/arthur-debert/presubmit/pkg/toolrun"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	filesFrom     string
	allowOverride bool
}

func newUploadCmd(g *globalOptions) *cobra.Command {
	co := &checkOptions{}
	cmd := &cobra.Command{
		Use:     "upload [files...]",
		Short:   MsgUploadShort,
		Long:    MsgUploadLong,
		GroupID: "checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, g, co, types.ModeUpload, args)
		},
	}
	cmd.Flags().StringVar(&co.filesFrom, "files-from", "", MsgFlagFilesFrom)
	cmd.Flags().BoolVar(&co.allowOverride, "allow-override", false, MsgFlagAllowOverride)
	return cmd
}

func newCommitCmd(g *globalOptions) *cobra.Command {
	co := &checkOptions{}
	cmd := &cobra.Command{
		Use:     "commit [files...]",
		Short:   MsgCommitShort,
		Long:    MsgCommitLong,
		GroupID: "checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, g, co, types.ModeCommit, args)
		},
	}
	cmd.Flags().StringVar(&co.filesFrom, "files-from", "", MsgFlagFilesFrom)
	return cmd
}

func runCheck(cmd *cobra.Command, g *globalOptions, co *checkOptions, mode types.Mode, args []string) error {
	logger := logging.GetLogger("cli.check")

	paths := append([]string(nil), args...)
	if co.filesFrom != "" {
		listed, err := readFilesFrom(co.filesFrom, cmd.InOrStdin())
		if err != nil {
			return err
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return errors.New(errors.ErrUsage, MsgErrNoFiles)
	}

	root, err := g.resolveRoot()
	if err != nil {
		return err
	}
	cfg, err := g.loadConfig(root)
	if err != nil {
		return err
	}
	renderer, err := g.renderer(cfg, root, cmd)
	if err != nil {
		return err
	}

	files, err := changeset.Load(root, paths)
	if err != nil {
		return err
	}

	p, err := pipeline.FromConfig(cfg, toolrun.NewExecRunner(cfg.Tools.Timeout.Std()))
	if err != nil {
		return err
	}

	logger.Info().Str("root", root).Int("files", len(files)).Str("mode", string(mode)).Msg("Running presubmit")
	verdict, err := p.Run(cmd.Context(), mode, files, root)
	if err != nil {
		return err
	}

	if err := renderer.Render(&verdict); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render report")
	}
	return verdictError(&verdict, co.allowOverride, cmd.ErrOrStderr())
}

// verdictError maps a verdict to the command result. An overridable block
// passes only when the override was requested.
func verdictError(v *types.Verdict, allowOverride bool, stderr io.Writer) error {
	if !v.Blocked() {
		return nil
	}
	if v.Overridable && allowOverride {
		fmt.Fprintln(stderr, MsgOverrideNotice)
		return nil
	}

	blocking := 0
	for _, c := range v.Checks {
		blocking += c.Errors
	}
	return errors.Newf(errors.ErrBlocked, MsgErrBlocked, v.Mode, blocking).
		WithDetail("digest", v.Digest)
}

func readFilesFrom(source string, stdin io.Reader) ([]string, error) {
	if source == "-" {
		return changeset.ReadList(stdin)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", source)
	}
	defer f.Close()
	return changeset.ReadList(f)
}
