package memory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnippetShortContentUnchanged(t *testing.T) {
	assert.Equal(t, "I remember my red bicycle.", Snippet("I remember my red bicycle.", 120))
}

func TestSnippetTruncatesAtWordBoundary(t *testing.T) {
	content := "When I was six years old my father gave me a shiny red bicycle for my birthday"

	snippet := Snippet(content, 40)
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.LessOrEqual(t, len([]rune(snippet)), 43)
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(snippet, "..."), " "))
}

func TestSnippetDefaultsAndCaps(t *testing.T) {
	long := strings.Repeat("word ", 200)

	assert.True(t, strings.HasSuffix(Snippet(long, 0), "..."), "zero max uses the default")

	capped := Snippet(long, 10000)
	assert.LessOrEqual(t, len([]rune(capped)), maxSnippetChars+3)
}

func TestSnippetTrimsWhitespace(t *testing.T) {
	assert.Equal(t, "hello", Snippet("  hello  ", 120))
}

func TestRenderHTML(t *testing.T) {
	r := NewRenderer()

	out, err := r.RenderHTML("**the beach** in 1962")
	assert.NoError(t, err)
	assert.Contains(t, out, "<strong>the beach</strong>")
}
