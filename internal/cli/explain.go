package cli

import (
	"fmt"
	"os"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/rules"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "explain <rule-id>",
		Short:   MsgExplainShort,
		GroupID: "misc",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, ok := rules.Doc(args[0])
			if !ok {
				return errors.Newf(errors.ErrNotFound, MsgErrUnknownRule, args[0]).
					WithDetail("rule", args[0])
			}

			out := cmd.OutOrStdout()
			if f, isFile := out.(*os.File); isFile && isatty.IsTerminal(f.Fd()) {
				doc = renderMarkdown(doc)
			}
			_, err := fmt.Fprint(out, doc)
			return err
		},
	}
}

// renderMarkdown styles markdown for the terminal, falling back to the
// source when glamour fails
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
