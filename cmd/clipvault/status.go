package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/borgar90/ClipVault/internal/ipc"
	"github.com/borgar90/ClipVault/internal/message"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show the running monitor's state",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runStatus(v) },
	}

	cmd.Flags().Bool("json", false, "output raw JSON")
	addConfigFlag(cmd)

	return cmd
}

func runStatus(v *viper.Viper) error {
	if !ipc.IsRunning() {
		fmt.Println("No monitor running.")
		return nil
	}

	reply, err := ipc.Request(&message.Message{Type: message.TypeStatus})
	if err != nil {
		return fmt.Errorf("status request: %w", err)
	}
	if reply.Type == message.TypeError {
		return fmt.Errorf("monitor reported: %s", reply.Error)
	}
	if reply.Status == nil {
		return fmt.Errorf("malformed status response")
	}

	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(reply.Status, "", "  ")
		fmt.Println(string(enc))
		return nil
	}

	printStatus(reply.Status)
	return nil
}

func printStatus(s *message.StatusInfo) {
	w := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "State:\t%s\n", s.State)
	fmt.Fprintf(w, "Version:\t%s\n", s.Version)
	fmt.Fprintf(w, "Items:\t%d\n", s.Items)
	fmt.Fprintf(w, "Database:\t%s\n", s.DBPath)
	fmt.Fprintf(w, "Interval:\t%s\n", s.Interval)
	if !s.StartedAt.IsZero() {
		fmt.Fprintf(w, "Started:\t%s (%s ago)\n",
			s.StartedAt.Local().Format(time.RFC3339),
			time.Since(s.StartedAt).Round(time.Second),
		)
	}
	w.Flush()
}
