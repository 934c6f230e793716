// clipvault: background clipboard history.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/borgar90/ClipVault/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

// exitAlreadyRunning is the process exit code when a second launch finds an
// instance already monitoring. Distinct from the generic failure code so
// wrappers and installers can tell the two apart.
const exitAlreadyRunning = 2

func main() {
	root := &cobra.Command{
		Use:   "clipvault",
		Short: "Background clipboard history",
		Long: `clipvault watches the system clipboard and appends every distinct text
value to a durable per-user history, which the other sub-commands query.

Run "clipvault monitor" once per login session; a second launch just brings
the running instance to the foreground. Use list/copy/export/delete against
the history from any shell while the monitor keeps running.

Config file search order (first found wins):
  /etc/clipvault/clipvault.toml
  $HOME/.config/clipvault/clipvault.toml
  path supplied via --config

All flags can be set via CLIPVAULT_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newMonitorCmd(),
		newListCmd(),
		newCopyCmd(),
		newExportCmd(),
		newDeleteCmd(),
		newStatusCmd(),
		newShowCmd(),
		newHideCmd(),
		newQuitCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipvault %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
