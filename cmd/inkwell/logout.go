package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := openClient(context.Background())
		client.Session.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
