package shahmat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSVGStartingPosition(t *testing.T) {
	var buf bytes.Buffer
	RenderSVG(&buf, StartingPosition())
	out := buf.String()

	require.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
	assert.Contains(t, out, "<svg")
	assert.Equal(t, 64, strings.Count(out, "<rect"), "one rect per square")
	assert.Equal(t, 32, strings.Count(out, "<text"), "one glyph per piece")
	assert.Contains(t, out, "♔")
	assert.Contains(t, out, "♟")
}

func TestRenderSVGEmptyBoard(t *testing.T) {
	pos, err := decodeFEN("8/8/8/8/8/8/8/8 w - - 0 1")
	require.NoError(t, err)
	var buf bytes.Buffer
	RenderSVG(&buf, pos)
	out := buf.String()
	assert.Equal(t, 64, strings.Count(out, "<rect"))
	assert.Zero(t, strings.Count(out, "<text"))
}
