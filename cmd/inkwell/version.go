package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of inkwell",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "inkwell version %s\n", strings.TrimSpace(inkwell.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
