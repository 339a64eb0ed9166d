// Package stringutil provides string helpers shared by the validator and the CLI.
package stringutil

import "regexp"

// Truncate shortens s to at most maxLen bytes, ending in "..." when there is
// room for it.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:max(maxLen, 0)]
	}
	return s[:maxLen-3] + "..."
}

var ansiEscapePattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSIEscapeCodes removes ANSI CSI sequences (colors, cursor movement)
// from s.
func StripANSIEscapeCodes(s string) string {
	return ansiEscapePattern.ReplaceAllString(s, "")
}
