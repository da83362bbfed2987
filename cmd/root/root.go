// Package root assembles the top-level `hype` cobra command from the
// per-operation subcommands in the sibling cmd/* packages.
//
// Grounded on the cobra root-command wiring idiom in
// _examples/grafana-k6/cmd/root.go (newRootCommand/Execute): a single
// *cobra.Command tree built once in Execute, global persistent flags for
// logging, and SilenceUsage/SilenceErrors so errors are reported through
// the structured error model (internal/herrors) instead of cobra's default
// usage dump.
package root

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rizqme/hype/cmd/install"
	"github.com/rizqme/hype/cmd/list"
	"github.com/rizqme/hype/cmd/run"
	"github.com/rizqme/hype/cmd/uninstall"
	"github.com/rizqme/hype/cmd/which"
	"github.com/rizqme/hype/internal/herrors"
)

// Execute builds the command tree and runs it against os.Args. It is the
// sole entry point called from main.go.
func Execute() int {
	log := logrus.New()

	var verbose bool
	rootCmd := &cobra.Command{
		Use:           "hype",
		Short:         "Run and manage scripts on the hype runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		run.New(log),
		install.New(log),
		uninstall.New(log),
		list.New(log),
		which.New(log),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, herrors.FormatStable(err))
		return herrors.ExitCode(err)
	}
	return 0
}
