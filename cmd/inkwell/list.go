package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/core"
	"github.com/aretw0/inkwell/pkg/notes"
)

const (
	msgNoNotes   = "No notes yet."
	msgNoMatches = "No notes match your search."
)

var (
	listJSON   bool
	filterTag  string
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := openSession(ctx)
		store := client.Notes()
		defer store.Close()

		if _, err := store.List(ctx); err != nil {
			fatal("Error listing notes", err)
		}

		filtered, err := store.FilterTag(filterTag)
		if err != nil {
			fatal("Error", err)
		}
		filtered = notes.Filter(filtered, listSearch)

		if listJSON {
			writeJSON(cmd.OutOrStdout(), filtered)
			return
		}

		empty := msgNoNotes
		if filterTag != "" || listSearch != "" {
			empty = msgNoMatches
		}
		printNotes(cmd.OutOrStdout(), filtered, empty)
	},
}

// printNotes writes one line per note, or empty when there is none.
func printNotes(w io.Writer, list []core.Note, empty string) {
	if len(list) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, n := range list {
		title := n.Title
		if title == "" {
			title = firstLine(n.Content)
		}
		tag := ""
		if n.Tag != "" {
			tag = fmt.Sprintf(" #%s", n.Tag)
		}
		fmt.Fprintf(w, "%s  %-7s %s%s\n", n.ID, n.Color, title, tag)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	if r := []rune(line); len(r) > 60 {
		line = string(r[:57]) + "..."
	}
	return line
}

func writeJSON(w io.Writer, v any) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fatal("Error encoding JSON", err)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter notes by tag glob (e.g. 'work/*')")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only notes containing this text")
}
