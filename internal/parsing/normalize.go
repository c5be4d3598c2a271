// Package parsing turns raw document text into the normalized token stream used
// for vector-space scoring.
package parsing

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes raw text for tokenization: it lowercases, replaces
// every character outside [a-z0-9], whitespace, '+' and '#' with a space,
// collapses whitespace runs and trims the result.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)

	var sb strings.Builder
	sb.Grow(len(lower))
	pendingSpace := false
	for _, r := range lower {
		if !isKeptRune(r) || isSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		pendingSpace = false
		sb.WriteRune(r)
	}

	return sb.String()
}

// isKeptRune reports whether r survives normalization as itself.
// Only ASCII letters and digits are kept; other letters become separators.
func isKeptRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '+' || r == '#':
		return true
	default:
		return isSpace(r)
	}
}

// isSpace matches the \s class: space, \t, \n, \v, \f, \r plus Unicode spaces.
func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
