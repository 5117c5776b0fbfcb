// Package cli implements the presubmit command line.
package cli

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/presubmit/internal/version"
	"github.com/arthur-debert/presubmit/pkg/changeset"
	"github.com/arthur-debert/presubmit/pkg/config"
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/logging"
	"github.com/arthur-debert/presubmit/pkg/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	root       string
	configFile string
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "presubmit",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    usageArgs(cobra.NoArgs),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrUsage, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "", MsgFlagFormat)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(err, errors.ErrUsage, "invalid flags")
	})

	rootCmd.AddGroup(&cobra.Group{ID: "checks", Title: "CHECKS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newUploadCmd(opts))
	rootCmd.AddCommand(newCommitCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newRulesCmd(opts))
	rootCmd.AddCommand(newExplainCmd())
	rootCmd.AddCommand(newGenConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// resolveRoot returns --root, or the discovered root of the working directory
func (o *globalOptions) resolveRoot() (string, error) {
	if o.root != "" {
		abs, err := filepath.Abs(o.root)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve root %s", o.root)
		}
		return abs, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileAccess, "failed to get current directory")
	}
	return changeset.FindRoot(cwd)
}

func (o *globalOptions) loadConfig(root string) (*config.Config, error) {
	return config.Load(config.Options{Root: root, File: o.configFile})
}

// renderer honours --format over the configured report format. A
// configured style sheet, relative to root, replaces the term styles.
func (o *globalOptions) renderer(cfg *config.Config, root string, cmd *cobra.Command) (report.Renderer, error) {
	name := cfg.Report.Format
	if o.format != "" {
		name = o.format
	}
	format, err := report.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	r, err := report.New(format, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	term, ok := r.(*report.Terminal)
	if !ok || cfg.Report.Styles == "" {
		return r, nil
	}
	path := cfg.Report.Styles
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	styles, err := report.LoadStyles(path)
	if err != nil {
		return nil, err
	}
	return term.WithStyles(styles), nil
}

// usageArgs wraps a cobra argument validator so its failures exit as usage errors
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.Wrap(err, errors.ErrUsage, "invalid arguments")
		}
		return nil
	}
}
