package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/borgar90/ClipVault/internal/store"
)

func newDeleteCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the entire clipboard history",
		Long: `Removes every item from the history database. There is no per-item
delete: history is all-or-nothing. Ids are never reused afterwards.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runDelete(v) },
	}

	cmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	addDBFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runDelete(v *viper.Viper) error {
	if !v.GetBool("yes") {
		fmt.Print("Delete ALL clipboard history? This cannot be undone. [y/N] ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	st, err := store.Open(v.GetString("db"))
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.DeleteAll(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d snippets.\n", n)
	return nil
}
