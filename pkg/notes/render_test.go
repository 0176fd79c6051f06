package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inkwell/pkg/core"
)

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(core.Note{Title: "A <b>", Content: "- one\n- **two**"})
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>A &lt;b&gt;</h1>")
	assert.Contains(t, out, "<li>one</li>")
	assert.Contains(t, out, "<strong>two</strong>")
}
