package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := openClient(context.Background())
		out := cmd.OutOrStdout()

		sess, ok := client.Session.Current()
		if !ok {
			fmt.Fprintln(out, "Not logged in.")
			return
		}
		fmt.Fprintf(out, "%s <%s>\n", sess.User.Username, sess.User.Email)
		if sess.ExpiresAt != nil {
			if sess.Expired(time.Now()) {
				fmt.Fprintf(out, "Session expired at %s. Run `inkwell login` again.\n", sess.ExpiresAt.Local().Format(time.RFC1123))
			} else {
				fmt.Fprintf(out, "Session valid until %s.\n", sess.ExpiresAt.Local().Format(time.RFC1123))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
