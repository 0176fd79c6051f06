package notes

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"

	"github.com/aretw0/inkwell/pkg/core"
)

var markdown = goldmark.New()

// RenderHTML converts a note's markdown content to an HTML fragment,
// headed by its title.
func RenderHTML(n core.Note) (string, error) {
	var buf bytes.Buffer
	if n.Title != "" {
		fmt.Fprintf(&buf, "<h1>%s</h1>\n", html.EscapeString(n.Title))
	}
	if err := markdown.Convert([]byte(n.Content), &buf); err != nil {
		return "", fmt.Errorf("failed to render note %s: %w", n.ID, err)
	}
	return buf.String(), nil
}
