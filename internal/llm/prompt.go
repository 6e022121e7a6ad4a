package llm

import (
	"strings"
)

// MaxChunkChars is how much of a document is sent to the model, in characters.
// The remainder of longer documents is not analyzed.
const MaxChunkChars = 2000

// BuildSystemPrompt describes what counts as a placeholder and the exact shape of
// the JSON array the model must return.
func BuildSystemPrompt() string {
	intro := []string{
		"You are an AI assistant specialized in identifying potential placeholders in legal documents.",
		"Placeholders are typically names, entity names, email addresses, phone numbers, dates, amounts, or other specific details that might need to be customized in a document.",
		"They are not marked with any special characters. You need to infer what might be a placeholder based on context.",
		"Analyze the text and return a JSON array of objects, where each object represents a potential placeholder and contains the following fields:",
	}
	fields := []string{
		"- placeholder: The text you've identified as a potential placeholder",
		"- description: A short description of what type of placeholder it is.",
		"- explanation: A brief explanation of why you think this is a placeholder and what it might represent",
		"- newValue: An empty string for the user to fill in later",
	}
	return strings.Join(intro, " ") + "\n" + strings.Join(fields, "\n")
}

// BuildUserPrompt embeds the first MaxChunkChars characters of content, cut even
// mid-word, followed by a literal "...".
func BuildUserPrompt(content string) string {
	var b strings.Builder
	b.WriteString("Analyze the following document chunk and identify potential placeholders. ")
	b.WriteString("Return the result as a JSON array of objects: ")
	b.WriteString(Truncate(content, MaxChunkChars))
	b.WriteString("...")
	return b.String()
}

// Truncate returns the first n characters (code points) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
