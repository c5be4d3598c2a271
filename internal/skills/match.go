// Package skills detects the presence of required skill keywords in raw resume text.
package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsWholeWord reports whether keyword occurs in text as a whole word,
// ignoring case. The text is only case-folded, never normalized, so symbol
// skills such as "c++" or "c#" must appear literally.
//
// A word boundary exists where a token rune (letter, digit, '_', '+' or '#')
// meets a non-token rune or the edge of the text. "java" is therefore not found
// in "javascript", and "c" is not found in "c++".
//
// Leading and trailing whitespace of keyword is ignored, so " Python " is
// searched as "python". Inner whitespace must match exactly.
func ContainsWholeWord(text, keyword string) bool {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return false
	}
	haystack := strings.ToLower(text)

	first, _ := utf8.DecodeRuneInString(needle)
	last, _ := utf8.DecodeLastRuneInString(needle)
	checkLeft := isTokenRune(first)
	checkRight := isTokenRune(last)

	offset := 0
	for {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(needle)

		if (!checkLeft || leftBoundary(haystack, start)) && (!checkRight || rightBoundary(haystack, end)) {
			return true
		}

		// Advance by one rune so overlapping occurrences are still tried.
		_, size := utf8.DecodeRuneInString(haystack[start:])
		offset = start + size
	}
}

// FindMissingSkills returns, in input order, each required skill that does not
// occur in resumeText as a whole word. The result is never nil.
func FindMissingSkills(resumeText string, requiredSkills []string) []string {
	missing := make([]string, 0, len(requiredSkills))
	for _, skill := range requiredSkills {
		if !ContainsWholeWord(resumeText, skill) {
			missing = append(missing, skill)
		}
	}
	return missing
}

// FindMatchedSkills is the complement of FindMissingSkills: it returns, in
// input order, each required skill present in text.
func FindMatchedSkills(text string, requiredSkills []string) []string {
	matched := make([]string, 0, len(requiredSkills))
	for _, skill := range requiredSkills {
		if ContainsWholeWord(text, skill) {
			matched = append(matched, skill)
		}
	}
	return matched
}

// ParseSkillList splits a comma-separated skill list, trimming whitespace and
// dropping empty entries. Order and duplicates are preserved.
func ParseSkillList(list string) []string {
	if strings.TrimSpace(list) == "" {
		return []string{}
	}

	parts := strings.Split(list, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			skills = append(skills, part)
		}
	}
	return skills
}

func leftBoundary(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isTokenRune(r)
}

func rightBoundary(s string, j int) bool {
	if j >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[j:])
	return !isTokenRune(r)
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '+' || r == '#'
}
