package cli

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/presubmit/pkg/checks"
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/rules"
	"github.com/arthur-debert/presubmit/pkg/toolrun"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newRulesCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		GroupID: "misc",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := g.resolveRoot()
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig(root)
			if err != nil {
				return err
			}

			reg, err := checks.Default(cfg, toolrun.NewExecRunner(cfg.Tools.Timeout.Std()))
			if err != nil {
				return err
			}
			checkRows := pterm.TableData{{"CHECK", "KIND", "MODES", "DESCRIPTION"}}
			for _, c := range reg.Checks() {
				modes := "upload, commit"
				if c.UploadOnly {
					modes = "upload"
				}
				if c.WarnOnUpload {
					modes += " (warns on upload)"
				}
				checkRows = append(checkRows, []string{c.ID, string(c.Kind), modes, c.Description})
			}

			lint, err := checks.LintRuleSet(cfg)
			if err != nil {
				return errors.Wrap(err, errors.ErrConfigInvalid, "invalid lint rules")
			}
			filtered := make(map[string]bool)
			for _, r := range rules.LintRules() {
				if _, ok := lint.Get(r.ID); !ok {
					filtered[r.ID] = true
				}
			}
			ruleRows := pterm.TableData{{"RULE", "SEVERITY", "ENABLED", "DESCRIPTION"}}
			for _, r := range rules.Builtin(cfg.Lint.MaxLineLength) {
				enabled := "yes"
				if filtered[r.ID] {
					enabled = "no"
				}
				ruleRows = append(ruleRows, []string{r.ID, string(r.Severity), enabled, r.Description})
			}

			var b strings.Builder
			for _, data := range []pterm.TableData{checkRows, ruleRows} {
				table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
				if err != nil {
					return errors.Wrap(err, errors.ErrInternal, "failed to render table")
				}
				b.WriteString(table + "\n\n")
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
}
