package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/presubmit/pkg/config"
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/spf13/cobra"
)

func newGenConfigCmd(g *globalOptions) *cobra.Command {
	var write, defaults bool
	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := g.resolveRoot()
			if err != nil {
				return err
			}

			var content string
			if defaults {
				content = config.DefaultsContent()
			} else {
				cfg, err := g.loadConfig(root)
				if err != nil {
					return err
				}
				if content, err = config.GenerateConfigContent(cfg); err != nil {
					return err
				}
			}

			if !write {
				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			path := filepath.Join(root, config.RepoConfigNames[0])
			if _, err := os.Stat(path); err == nil {
				return errors.Newf(errors.ErrAlreadyExists, MsgErrConfigExists, path).WithDetail("path", path)
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}
