// Package install implements the `hype install [path]` subcommand: reads a
// package manifest, validates it, and registers its bin commands as wrapper
// scripts in the global install registry.
//
// Grounded on internal/manifest's InstallRegistry/AddPackage (which already
// enforces "fail before any mutation on a bin-command conflict", per
// spec.md's boundary-behavior requirement) and the teacher's absence of any
// install surface at all — the wrapper-script shape and wiring instead
// follow the plain cobra subcommand pattern established in cmd/run.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rizqme/hype/internal/herrors"
	"github.com/rizqme/hype/internal/manifest"
)

// New builds the `install` subcommand.
func New(log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [path]",
		Short: "Register a package's bin commands in the global install registry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return herrors.Wrap(herrors.KindIoError, err, "resolving %s", path)
			}

			m, err := manifest.Load(abs)
			if err != nil {
				return err
			}
			if len(m.Bin) == 0 {
				log.WithField("package", m.Name).Info("package has no bin commands; nothing to register")
			}

			reg, err := manifest.LoadInstallRegistry()
			if err != nil {
				return err
			}
			if err := reg.AddPackage(m.Name, m.Version, abs, m.Bin); err != nil {
				return err
			}

			binDir, err := binDir()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(binDir, 0o755); err != nil {
				return herrors.Wrap(herrors.KindIoError, err, "creating %s", binDir)
			}
			for cmdName, relScript := range m.Bin {
				if err := writeWrapper(binDir, cmdName, filepath.Join(abs, relScript)); err != nil {
					return err
				}
			}

			if err := reg.Save(); err != nil {
				return err
			}
			log.WithField("package", m.Name).WithField("version", m.Version).Info("installed")
			return nil
		},
	}
	return cmd
}

// binDir is where per-platform executable wrappers are written: ~/.hype/bin
// (or $HYPE_HOME/bin).
func binDir() (string, error) {
	home, err := manifest.HypeHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "bin"), nil
}

// writeWrapper writes the POSIX shell or Windows .cmd wrapper for one bin
// command, per spec.md §6's "per-platform bin wrapper format".
func writeWrapper(binDir, cmdName, scriptPath string) error {
	self, err := os.Executable()
	if err != nil {
		self = "hype"
	}
	var (
		name string
		body string
		mode os.FileMode
	)
	if runtime.GOOS == "windows" {
		name = cmdName + ".cmd"
		body = fmt.Sprintf("@echo off\r\n%q run %q %%*\r\n", self, scriptPath)
		mode = 0o644
	} else {
		name = cmdName
		body = fmt.Sprintf("#!/bin/sh\nexec %q run %q \"$@\"\n", self, scriptPath)
		mode = 0o755
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(body), mode); err != nil {
		return herrors.Wrap(herrors.KindIoError, err, "writing wrapper %s", target)
	}
	return nil
}
