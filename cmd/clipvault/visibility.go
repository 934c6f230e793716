package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/borgar90/ClipVault/internal/ipc"
	"github.com/borgar90/ClipVault/internal/message"
)

// The show/hide/quit commands drive the running monitor over IPC. Hiding
// only conceals the display surface; monitoring continues identically until
// quit.

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Bring the running monitor to the foreground",
		Args:  cobra.NoArgs,
		RunE:  func(_ *cobra.Command, _ []string) error { return signalMonitor(message.TypeForeground) },
	}
}

func newHideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hide",
		Short: "Hide the monitor's display surface (monitoring continues)",
		Args:  cobra.NoArgs,
		RunE:  func(_ *cobra.Command, _ []string) error { return signalMonitor(message.TypeHide) },
	}
}

func newQuitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Stop the running monitor",
		Args:  cobra.NoArgs,
		RunE:  func(_ *cobra.Command, _ []string) error { return signalMonitor(message.TypeQuit) },
	}
}

func signalMonitor(t message.Type) error {
	if !ipc.IsRunning() {
		fmt.Println("No monitor running.")
		return nil
	}
	reply, err := ipc.Request(&message.Message{Type: t})
	if err != nil {
		return fmt.Errorf("signal monitor: %w", err)
	}
	if reply.Type == message.TypeError {
		return fmt.Errorf("monitor reported: %s", reply.Error)
	}
	return nil
}
