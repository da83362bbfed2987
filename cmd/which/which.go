// Package which implements the `hype which <cmd>` subcommand: resolves a
// bin command name to the package that registered it and the script it
// wraps.
package which

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rizqme/hype/internal/herrors"
	"github.com/rizqme/hype/internal/manifest"
)

// New builds the `which` subcommand.
func New(log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "which <cmd>",
		Short: "Show which installed package owns a bin command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			reg, err := manifest.LoadInstallRegistry()
			if err != nil {
				return err
			}
			owner, ok := reg.BinCommands[name]
			if !ok {
				return herrors.New(herrors.KindValidationError, "no installed command named %q", name)
			}
			pkg, ok := reg.Packages[ownerName(owner)]
			if !ok {
				return herrors.New(herrors.KindValidationError, "command %q references unknown package %q", name, owner)
			}
			relScript := pkg.Bin[name]
			fmt.Printf("%s (%s)\n", owner, filepath.Join(pkg.Location, relScript))
			return nil
		},
	}
	return cmd
}

// ownerName strips the "@version" suffix bin_commands stores alongside the
// package name, per the registry.json schema of spec.md §6.
func ownerName(owner string) string {
	for i := len(owner) - 1; i >= 0; i-- {
		if owner[i] == '@' {
			return owner[:i]
		}
	}
	return owner
}
