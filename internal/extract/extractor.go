package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/joseph-ayodele/placeholder-analyzer/constants"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/common"
)

// Extractor reads a document into a single string. The logical file name decides
// the strategy; the path is only used to open the file.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract picks a strategy based on the extension of fileName.
func (e *Extractor) Extract(ctx context.Context, fileName, path string) (TextExtractionResult, error) {
	start := time.Now()
	format := constants.MapNameToFormat(fileName)
	e.logger.Debug("extract.start", "file_name", fileName, "path", path, "format", format)

	var (
		res TextExtractionResult
		err error
	)
	switch format {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	default:
		res, err = e.extractText(path)
	}
	res.SourceType = format
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("extract.failed",
			"file_name", fileName, "path", path, "format", format, "error", err,
			"elapsed_ms", res.Duration.Milliseconds(),
		)
		return res, errors.WithStack(fmt.Errorf("%w: %s: %w", common.ErrExtraction, fileName, err))
	}

	e.logger.Info("extract.ok",
		"file_name", fileName,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len([]rune(res.Text)),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
