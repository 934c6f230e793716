package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/borgar90/ClipVault/internal/clip"
	"github.com/borgar90/ClipVault/internal/ipc"
	"github.com/borgar90/ClipVault/internal/message"
	"github.com/borgar90/ClipVault/internal/store"
)

func newCopyCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a stored item back onto the clipboard",
		Long: `Fetches the item with the given id and places its text on the system
clipboard.

If a monitor is running it is told about the value first, so restoring an
item never re-logs it as a new capture.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return runCopy(v, id)
		},
	}

	addDBFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runCopy(v *viper.Viper, id int64) error {
	st, err := store.Open(v.GetString("db"))
	if err != nil {
		return err
	}
	defer st.Close()

	item, err := st.FetchByID(context.Background(), id)
	if err != nil {
		return err
	}

	// Suppression must land before the clipboard write; a missing monitor
	// is fine (nothing would log the write anyway).
	if ipc.IsRunning() {
		if _, err := ipc.Request(&message.Message{
			Type: message.TypeSuppress,
			Text: item.Text,
		}); err != nil {
			slog.Warn("could not notify monitor, item may be re-logged", "err", err)
		}
	}

	backend := clip.New()
	defer backend.Close()
	if err := backend.WriteText(item.Text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}

	fmt.Printf("Copied item %d back to clipboard.\n", item.ID)
	return nil
}
