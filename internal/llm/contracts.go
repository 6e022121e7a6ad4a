package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompleter is the model transport the analyzer depends on. It returns the text
// of the first choice.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// PlaceholderAnalyzer turns document text into an AnalysisResult. Failures are
// reported inside the result, never as a Go error.
type PlaceholderAnalyzer interface {
	Analyze(ctx context.Context, content string) AnalysisResult
}

// Placeholder is the typed view of one detected span.
type Placeholder struct {
	Placeholder string `json:"placeholder"`
	Description string `json:"description"`
	Explanation string `json:"explanation"`
	NewValue    string `json:"newValue"` // left empty for the user to fill in
}

// AnalysisResult is either {placeholders: [...]} or {error, raw_response?}.
// Placeholders keep the exact JSON the model returned for each element.
type AnalysisResult struct {
	Placeholders []json.RawMessage
	Error        string
	RawResponse  *string
}

// Failed reports whether the result carries an error instead of placeholders.
func (r AnalysisResult) Failed() bool {
	return r.Error != ""
}

func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return marshalNoEscape(struct {
			Error       string  `json:"error"`
			RawResponse *string `json:"raw_response,omitempty"`
		}{r.Error, r.RawResponse})
	}
	ph := r.Placeholders
	if ph == nil {
		ph = []json.RawMessage{}
	}
	return marshalNoEscape(struct {
		Placeholders []json.RawMessage `json:"placeholders"`
	}{ph})
}

// Decode converts the raw elements to Placeholder values. Non-string values are
// rendered as their JSON text and missing keys become empty strings.
func (r AnalysisResult) Decode() ([]Placeholder, error) {
	out := make([]Placeholder, 0, len(r.Placeholders))
	for i, raw := range r.Placeholders {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("placeholder %d: %w", i, err)
		}
		out = append(out, Placeholder{
			Placeholder: stringify(m["placeholder"]),
			Description: stringify(m["description"]),
			Explanation: stringify(m["explanation"]),
			NewValue:    stringify(m["newValue"]),
		})
	}
	return out, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, err := marshalNoEscape(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func strPtr(s string) *string {
	return &s
}
