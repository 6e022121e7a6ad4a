package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, fileName, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int    // 0 for plain text
	SourceType string // constants.PDF | constants.TEXT
	Method     string // "pdf-text" | "plain-text"
	Duration   time.Duration
}
