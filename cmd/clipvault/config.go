package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/borgar90/ClipVault/internal/logging"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and CLIPVAULT_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → CLIPVAULT_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("clipvault")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/clipvault/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(fmt.Sprintf("%s/.config/clipvault", home))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("CLIPVAULT")
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// defaultDBPath is the per-user history database location. Living in the
// user's data directory, not next to the binary, keeps the history out of
// world-readable install locations.
func defaultDBPath() string {
	if path, err := xdg.DataFile(filepath.Join("clipvault", "history.db")); err == nil {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".clipvault", "history.db")
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info, debug on a TTY)")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addDBFlag adds the --db flag to a command that touches the history store.
func addDBFlag(cmd *cobra.Command) {
	cmd.Flags().String("db", defaultDBPath(), "path to the history database")
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) {
	interactive := logging.IsTTY(os.Stderr)
	resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"))
}
