package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/forms"
)

var (
	loginEmail    string
	passwordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and keep the session on disk",
	Long: `Sign in with your email and password. The password is read without echo,
or as one line from stdin with --password-stdin.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := openClient(ctx)

		email, err := promptIfEmpty(loginEmail, "Email: ")
		if err != nil {
			fatal("Failed to read email", err)
		}
		password, err := passwordFrom(passwordStdin)
		if err != nil {
			fatal("Failed to read password", err)
		}

		form := forms.Login{Email: email, Password: password}
		if err := form.Validate(); err != nil {
			fatal("Error", err)
		}

		user, err := client.Session.Login(ctx, form.Email, form.Password)
		if err != nil {
			fatal("Login failed", err)
		}
		slog.Debug("session stored", "state_dir", client.StateDir)
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", user.Username)
	},
}

func passwordFrom(fromStdin bool) (string, error) {
	if fromStdin {
		return readLine("")
	}
	return readPassword("Password: ")
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
}
