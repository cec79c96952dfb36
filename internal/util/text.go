package util

import (
	"strings"
	"unicode"
)

// CleanText trims s and drops control and invisible formatting characters.
// Newlines and tabs survive only when multiline is set; carriage returns never do.
func CleanText(s string, multiline bool) string {
	trimmed := strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if multiline && (r == '\n' || r == '\t') {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || isInvisibleUnicode(r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// isInvisibleUnicode reports zero-width and other format characters that
// render as nothing but make two usernames compare unequal.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u200E', // Left-to-Right Mark
		'\u200F', // Right-to-Left Mark
		'\u2060', // Word Joiner
		'\uFEFF', // BOM
		'\uFFF9', '\uFFFA', '\uFFFB':
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
