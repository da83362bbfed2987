// Package uninstall implements the `hype uninstall <name>` subcommand:
// removes a package's registry entry and its bin command wrapper scripts.
package uninstall

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rizqme/hype/internal/herrors"
	"github.com/rizqme/hype/internal/manifest"
)

// New builds the `uninstall` subcommand.
func New(log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall <name>",
		Short: "Remove a package from the global install registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			reg, err := manifest.LoadInstallRegistry()
			if err != nil {
				return err
			}
			pkg, ok := reg.Packages[name]
			if !ok {
				return herrors.New(herrors.KindValidationError, "package %q is not installed", name)
			}

			home, err := manifest.HypeHome()
			if err != nil {
				return err
			}
			binDir := filepath.Join(home, "bin")
			for cmdName := range pkg.Bin {
				wrapper := cmdName
				if runtime.GOOS == "windows" {
					wrapper += ".cmd"
				}
				if err := os.Remove(filepath.Join(binDir, wrapper)); err != nil && !os.IsNotExist(err) {
					return herrors.Wrap(herrors.KindIoError, err, "removing wrapper for %s", cmdName)
				}
			}

			reg.RemovePackage(name)
			if err := reg.Save(); err != nil {
				return err
			}
			log.WithField("package", name).Info("uninstalled")
			return nil
		},
	}
	return cmd
}
