package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/presubmit/internal/cli"
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/report"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := report.DefaultStyles().Get("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(errors.ExitCode(err))
	}
}
