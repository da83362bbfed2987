// Package list implements the `hype list [--json]` subcommand: prints every
// package registered in the global install registry.
package list

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rizqme/hype/internal/manifest"
)

// New builds the `list` subcommand.
func New(log *logrus.Logger) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List packages registered in the global install registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := manifest.LoadInstallRegistry()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(reg.Packages))
			for name := range reg.Packages {
				names = append(names, name)
			}
			sort.Strings(names)

			if asJSON {
				data, err := json.MarshalIndent(reg.Packages, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			for _, name := range names {
				pkg := reg.Packages[name]
				fmt.Printf("%s@%s\t%s\n", name, pkg.Version, pkg.Location)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print registry entries as JSON")
	return cmd
}
