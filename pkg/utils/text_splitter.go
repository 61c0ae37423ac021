package utils

import (
	"regexp"
	"strings"
)

// sentenceBoundary matches terminal punctuation followed by whitespace.
var sentenceBoundary = regexp.MustCompile(`[.!?]\s`)

// SplitSentences splits text on sentence-ending punctuation followed by
// whitespace. Empty fragments are discarded.
func SplitSentences(text string) []string {
	parts := sentenceBoundary.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		sentences = append(sentences, p)
	}
	return sentences
}

func CountSentences(text string) int {
	return len(SplitSentences(text))
}

// Truncate keeps at most limit runes of s. When s is longer than limit it is
// cut to keep runes and suffix is appended.
func Truncate(s string, limit, keep int, suffix string) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if keep > len(runes) {
		keep = len(runes)
	}
	return string(runes[:keep]) + suffix
}

// Preview shortens s for log output.
func Preview(s string, maxLen int) string {
	return Truncate(s, maxLen, maxLen, "...")
}
