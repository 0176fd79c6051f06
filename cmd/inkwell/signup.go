package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/core"
	"github.com/aretw0/inkwell/pkg/forms"
)

var (
	signupUsername string
	signupEmail    string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := openClient(ctx)

		username, err := promptIfEmpty(signupUsername, "Username: ")
		if err != nil {
			fatal("Failed to read username", err)
		}
		email, err := promptIfEmpty(signupEmail, "Email: ")
		if err != nil {
			fatal("Failed to read email", err)
		}
		password, err := passwordFrom(passwordStdin)
		if err != nil {
			fatal("Failed to read password", err)
		}

		form := forms.Signup{Username: username, Email: email, Password: password}
		if err := form.Validate(); err != nil {
			fatal("Error", err)
		}

		acc, err := client.Session.Signup(ctx, form.Username, form.Email, form.Password)
		if err != nil {
			fatal("Signup failed", err)
		}
		sess, _ := client.Session.Current()
		fmt.Fprintln(cmd.OutOrStdout(), signedUpMessage(acc, sess.User))
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVarP(&signupUsername, "username", "u", "", "Username")
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "Account email")
	signupCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
}

// signedUpMessage names the session user, the same way login does.
func signedUpMessage(acc core.Account, user core.User) string {
	return fmt.Sprintf("Account %s created. Logged in as %s.", acc.Username, user.Username)
}
