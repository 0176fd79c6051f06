package main

import (
	"context"

	"github.com/spf13/cobra"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search notes by title, content or tag",
	Long:  `Search is case-insensitive and matches any part of the title, content or tag.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := openSession(ctx)
		store := client.Notes()
		defer store.Close()

		if _, err := store.List(ctx); err != nil {
			fatal("Error listing notes", err)
		}
		found := store.Search(args[0])

		if searchJSON {
			writeJSON(cmd.OutOrStdout(), found)
			return
		}
		printNotes(cmd.OutOrStdout(), found, msgNoMatches)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
}
