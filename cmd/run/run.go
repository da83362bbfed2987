// Package run implements the `hype run <script>` subcommand: the default
// path that loads the project manifest, constructs a Host with every
// standard module wired in, and executes a script file.
//
// Grounded on the teacher's cmd/run-equivalent control flow inlined in
// internal/runtime/runtime.go's Run plus the manifest-discovery idiom from
// pkg/config/package.go, now split into a standalone cobra subcommand the
// way _examples/grafana-k6/cmd/run.go separates flag parsing from engine
// construction.
package run

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rizqme/hype/internal/host"
	"github.com/rizqme/hype/internal/manifest"
	"github.com/rizqme/hype/internal/modules"
)

// New builds the `run` subcommand.
func New(log *logrus.Logger) *cobra.Command {
	var (
		allowAbsolutePaths bool
		memoryLimitMB      int
		timeoutSeconds     int
		allowNet           []string
		allowRead          []string
		allowWrite         []string
		allowEnv           []string
	)

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Execute a script file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptPath := args[0]
			projectRoot := manifest.FindProjectRoot(scriptPath)
			m, err := manifest.Load(projectRoot)
			if err != nil {
				return err
			}

			envNames := append(append([]string{}, m.Hype.Permissions.AllowEnv...), allowEnv...)
			envPolicy := host.EnvAccessPolicy{Mode: "allowlist", Names: envNames}
			if len(envNames) == 0 {
				envPolicy = host.EnvAccessPolicy{Mode: "deny_all"}
			}

			h := host.New(host.Options{
				AllowAbsolutePaths: allowAbsolutePaths,
				MemoryLimitBytes:   uint64(memoryLimitMB) * 1024 * 1024,
				ExecutionTimeout:   time.Duration(timeoutSeconds) * time.Second,
				EnvAccessPolicy:    envPolicy,
				Log:                log,
			}, m, projectRoot)
			defer h.Dispose()

			perms := modules.Permissions{
				AllowNet:   append(append([]string{}, m.Hype.Permissions.AllowNet...), allowNet...),
				AllowRead:  append(append([]string{}, m.Hype.Permissions.AllowRead...), allowRead...),
				AllowWrite: append(append([]string{}, m.Hype.Permissions.AllowWrite...), allowWrite...),
			}
			modules.InstallAll(h, perms)

			return h.Run(scriptPath)
		},
	}

	cmd.Flags().BoolVar(&allowAbsolutePaths, "allow-absolute-paths", false, "permit require() of absolute filesystem paths")
	cmd.Flags().IntVar(&memoryLimitMB, "memory-limit", 0, "interpreter memory limit in megabytes (0 = unlimited)")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "execution timeout in seconds (0 = unlimited)")
	cmd.Flags().StringSliceVar(&allowNet, "allow-net", nil, "hosts the http module may connect to")
	cmd.Flags().StringSliceVar(&allowRead, "allow-read", nil, "paths the fs module may read")
	cmd.Flags().StringSliceVar(&allowWrite, "allow-write", nil, "paths the fs module may write")
	cmd.Flags().StringSliceVar(&allowEnv, "allow-env", nil, "environment variable names exposed through the global process.env")

	return cmd
}
