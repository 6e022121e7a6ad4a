package llm

import "strings"

// StripCodeFence removes surrounding whitespace, a leading "```json" and a trailing
// "```" when present. Nothing else about the text is changed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimSuffix(s, "```")
	return s
}
