package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/core"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note from the server. You are asked to confirm unless --yes is given.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := openSession(ctx)
		store := client.Notes()
		defer store.Close()

		confirm := askConfirm(stdin, os.Stderr)
		if deleteYes {
			confirm = core.AlwaysConfirm
		}

		err := store.Remove(ctx, args[0], confirm)
		if errors.Is(err, core.ErrNotConfirmed) {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
			return
		}
		if err != nil {
			fatal("Error deleting note", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}
