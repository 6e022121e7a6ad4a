package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/placeholder-analyzer/internal/llm"
)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete implements llm.ChatCompleter using text-only chat/completions and returns
// the content of the first choice.
func (c *Client) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	start := time.Now()
	c.log.Info("llm.openai.complete.start",
		"model", c.cfg.Model,
		"messages", len(messages),
		"timeout", c.cfg.Timeout.String(),
	)

	body := chatRequest{Model: c.cfg.Model, Messages: messages}
	if c.cfg.Temperature != 0 {
		t := c.cfg.Temperature
		body.Temperature = &t
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, status, err := llm.SendJSON(ctx, c.httpClient, c.cfg.BaseURL+"/chat/completions", body, headers, c.log)
	if err != nil {
		if status != 0 && raw != nil {
			return "", fmt.Errorf("openai status %d: %s", status, errorMessage(raw))
		}
		return "", fmt.Errorf("openai http error: %w", err)
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.openai.decode_error", "error", err, "raw_bytes", len(raw))
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.openai.no_choices", "raw", string(raw))
		return "", fmt.Errorf("no choices in openai response")
	}

	c.log.Info("llm.openai.complete.ok",
		"choices", len(cc.Choices),
		"content_bytes", len(cc.Choices[0].Message.Content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return cc.Choices[0].Message.Content, nil
}

// errorMessage prefers the provider's error.message and falls back to the body text.
func errorMessage(raw []byte) string {
	var ae apiError
	if err := json.Unmarshal(raw, &ae); err == nil && ae.Error.Message != "" {
		return ae.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
