package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/core"
)

var (
	noteTitle   string
	noteContent string
	noteColor   string
	noteTag     string
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Long:  `Create a note. Pass --content - to read the body from stdin.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := openSession(ctx)

		content, err := contentArg(noteContent)
		if err != nil {
			fatal("Failed to read content", err)
		}
		color, err := core.ParseColor(noteColor)
		if err != nil {
			fatal("Error", err)
		}

		store := client.Notes()
		defer store.Close()
		n, err := store.Create(ctx, core.Draft{Title: noteTitle, Content: content, Color: color, Tag: noteTag})
		if err != nil {
			fatal("Failed to create note", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note created: %s\n", n.ID)
	},
}

// contentArg reads stdin when v is "-".
func contentArg(v string) (string, error) {
	if v != "-" {
		return v, nil
	}
	b, err := io.ReadAll(os.Stdin)
	return string(b), err
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
	createCmd.Flags().StringVarP(&noteContent, "content", "c", "", "Note content (markdown, '-' for stdin)")
	createCmd.Flags().StringVar(&noteColor, "color", "", "Color: orange, yellow, green, red, purple, teal")
	createCmd.Flags().StringVar(&noteTag, "tag", "", "Tag")
}
