package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/core"
	"github.com/aretw0/inkwell/pkg/notes"
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a note",
	Long:  `Edit a note. Only the fields passed as flags change; the rest keep their value.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := openSession(ctx)
		store := client.Notes()
		defer store.Close()

		current, err := store.Get(ctx, args[0])
		if err != nil {
			fatal("Error reading note", err)
		}

		d := core.DraftOf(current)
		flags := cmd.Flags()
		if flags.Changed("title") {
			d.Title = noteTitle
		}
		if flags.Changed("content") {
			if d.Content, err = contentArg(noteContent); err != nil {
				fatal("Failed to read content", err)
			}
		}
		if flags.Changed("color") {
			if d.Color, err = core.ParseColor(noteColor); err != nil {
				fatal("Error", err)
			}
		}
		if flags.Changed("tag") {
			d.Tag = noteTag
		}

		editor := notes.NewEditor(store)
		if err := editor.Begin(&current); err != nil {
			fatal("Error", err)
		}
		n, err := editor.Submit(ctx, d)
		if err != nil {
			fatal("Failed to update note", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note updated: %s\n", n.ID)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&noteContent, "content", "c", "", "New content (markdown, '-' for stdin)")
	editCmd.Flags().StringVar(&noteColor, "color", "", "New color")
	editCmd.Flags().StringVar(&noteTag, "tag", "", "New tag")
}
