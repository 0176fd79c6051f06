package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/notes"
)

var (
	showJSON bool
	showHTML bool
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a note",
	Long:  `Show a note by its ID. Prints the markdown content by default, a JSON object with --json or rendered HTML with --html.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := openSession(ctx)
		store := client.Notes()
		defer store.Close()

		n, err := store.Get(ctx, args[0])
		if err != nil {
			fatal("Error reading note", err)
		}

		out := cmd.OutOrStdout()
		switch {
		case showJSON:
			writeJSON(out, n)
		case showHTML:
			html, err := notes.RenderHTML(n)
			if err != nil {
				fatal("Error rendering note", err)
			}
			fmt.Fprint(out, html)
		default:
			fmt.Fprintf(out, "# %s\n", n.Title)
			fmt.Fprintf(out, "color: %s", n.Color)
			if n.Tag != "" {
				fmt.Fprintf(out, "  tag: %s", n.Tag)
			}
			fmt.Fprintf(out, "  created: %s\n\n", n.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintln(out, n.Content)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	showCmd.Flags().BoolVar(&showHTML, "html", false, "Render the markdown content as HTML")
	showCmd.MarkFlagsMutuallyExclusive("json", "html")
}
