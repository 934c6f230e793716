package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/borgar90/ClipVault/internal/export"
	"github.com/borgar90/ClipVault/internal/store"
)

func newExportCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "export <path>",
		Short:   "Export all history items to a CSV file",
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, args []string) error {
			return runExport(v, args[0])
		},
	}

	addDBFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runExport(v *viper.Viper, path string) error {
	st, err := store.Open(v.GetString("db"))
	if err != nil {
		return err
	}
	defer st.Close()

	items, err := st.FetchAll(context.Background(), store.Newest)
	if err != nil {
		return err
	}

	if err := export.File(path, items); err != nil {
		return err
	}
	fmt.Printf("Exported %d snippets to %s\n", len(items), path)
	return nil
}
