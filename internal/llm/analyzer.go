package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Analyzer sends one document chunk to the model and validates the array it returns.
type Analyzer struct {
	client     ChatCompleter
	itemSchema *jsonschema.Schema
	logger     *slog.Logger
}

func NewAnalyzer(client ChatCompleter, logger *slog.Logger) (*Analyzer, error) {
	if client == nil {
		return nil, fmt.Errorf("analyzer: nil chat client")
	}
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := CompileSchema(BuildPlaceholderJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}
	return &Analyzer{client: client, itemSchema: schema, logger: logger}, nil
}

// Analyze makes exactly one model call. Transport failures, malformed JSON and
// shape violations all come back as an AnalysisResult with Error set.
func (a *Analyzer) Analyze(ctx context.Context, content string) AnalysisResult {
	start := time.Now()
	a.logger.Info("llm.analyze.start", "content_chars", len([]rune(content)), "chunk_chars", MaxChunkChars)

	messages := []Message{
		{Role: "system", Content: BuildSystemPrompt()},
		{Role: "user", Content: BuildUserPrompt(content)},
	}
	resp, err := a.client.Complete(ctx, messages)
	if err != nil {
		a.logger.Error("llm.analyze.request_failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return AnalysisResult{Error: fmt.Sprintf("Error analyzing chunk: %v", err)}
	}
	a.logger.Info("llm.analyze.response", "bytes", len(resp), "elapsed_ms", time.Since(start).Milliseconds())
	a.logger.Debug("llm.analyze.raw_response", "head", Truncate(resp, 500))

	placeholders, err := a.parse(resp)
	if err != nil {
		var fe formatError
		if errors.As(err, &fe) {
			a.logger.Error("llm.analyze.invalid_format", "error", err, "raw_response", resp)
			return AnalysisResult{
				Error:       fmt.Sprintf("Invalid response format: %v", err),
				RawResponse: strPtr(resp),
			}
		}
		a.logger.Error("llm.analyze.parse_failed", "error", err, "raw_response", resp)
		return AnalysisResult{
			Error:       fmt.Sprintf("Failed to parse API response: %v", err),
			RawResponse: strPtr(resp),
		}
	}

	a.logger.Info("llm.analyze.ok", "placeholders", len(placeholders), "elapsed_ms", time.Since(start).Milliseconds())
	return AnalysisResult{Placeholders: placeholders}
}

// formatError marks JSON that parsed but does not have the expected shape.
type formatError struct {
	error
}

// parse decodes the (unfenced) model output into raw array elements. Syntax errors
// are returned as is; shape violations are wrapped in formatError.
func (a *Analyzer) parse(resp string) ([]json.RawMessage, error) {
	body := []byte(StripCodeFence(resp))

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	if _, ok := v.([]any); !ok {
		return nil, formatError{errors.New("Expected a JSON array of objects")}
	}

	elems := []json.RawMessage{}
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, err
	}
	for _, el := range elems {
		if err := ValidateJSONAgainstSchema(a.itemSchema, el); err != nil {
			a.logger.Debug("llm.analyze.element_rejected", "error", err)
			return nil, formatError{fmt.Errorf("Invalid placeholder object structure: %s", compactJSON(el))}
		}
	}
	return elems, nil
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
