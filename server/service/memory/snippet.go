// Package memory provides presentation helpers for journal entries:
// list-view snippets, markdown rendering, and image thumbnails.
package memory

import (
	"strings"
	"unicode"
)

const (
	defaultSnippetChars = 120
	maxSnippetChars     = 400
	// boundaryScan caps how far Snippet searches for a word boundary.
	boundaryScan = 10
)

// Snippet truncates content for the list view, cutting at a word boundary
// and appending an ellipsis when anything was dropped.
func Snippet(content string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = defaultSnippetChars
	}
	if maxChars > maxSnippetChars {
		maxChars = maxSnippetChars
	}

	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= maxChars {
		return string(runes)
	}

	end := maxChars
	for i := end; i > end-boundaryScan && i > 0; i-- {
		if isSeparator(runes[i-1]) {
			end = i - 1
			break
		}
	}

	return strings.TrimRight(string(runes[:end]), " \t") + "..."
}

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', ',', '!', '?', ';', ':':
		return true
	}
	return false
}
