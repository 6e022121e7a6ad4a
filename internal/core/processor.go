package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/placeholder-analyzer/internal/extract"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/llm"
)

// OutputEnvelope is the single JSON document written to stdout.
type OutputEnvelope struct {
	FileName string             `json:"file_name"`
	Analysis llm.AnalysisResult `json:"analysis"`
}

// Exporter persists artifacts for a finished analysis.
type Exporter interface {
	Export(ctx context.Context, fileName string, res llm.AnalysisResult) error
}

// Processor coordinates text extraction then placeholder analysis.
type Processor struct {
	logger    *slog.Logger
	extractor extract.TextExtractor
	analyzer  llm.PlaceholderAnalyzer
	exporter  Exporter
}

// NewProcessor wires the stages. exporter may be nil.
func NewProcessor(
	logger *slog.Logger,
	extractor extract.TextExtractor,
	analyzer llm.PlaceholderAnalyzer,
	exporter Exporter,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		extractor: extractor,
		analyzer:  analyzer,
		exporter:  exporter,
	}
}

// ProcessFile extracts the document, analyzes it once and builds the envelope.
// Only extraction and export failures are returned as errors; analysis problems
// stay inside the envelope.
func (p *Processor) ProcessFile(ctx context.Context, fileName, filePath string) (OutputEnvelope, error) {
	start := time.Now()

	// 1) extract
	res, err := p.extractor.Extract(ctx, fileName, filePath)
	if err != nil {
		p.logger.Error("processor.extract.failed", "file_name", fileName, "err", err)
		return OutputEnvelope{}, err
	}
	p.logger.Debug("processor extract success",
		"file_name", fileName,
		"method", res.Method,
		"pages", res.Pages,
		"content_chars", len([]rune(res.Text)),
	)

	// 2) analyze
	analysis := p.analyzer.Analyze(ctx, res.Text)
	if analysis.Failed() {
		p.logger.Warn("processor.analyze.reported_error", "file_name", fileName, "error", analysis.Error)
	}
	env := OutputEnvelope{FileName: fileName, Analysis: analysis}

	// 3) artifacts
	if p.exporter != nil {
		if err := p.exporter.Export(ctx, fileName, analysis); err != nil {
			p.logger.Error("processor.export.failed", "file_name", fileName, "err", err)
			return env, err
		}
	}

	p.logger.Info("processor.done",
		"file_name", fileName,
		"placeholders", len(analysis.Placeholders),
		"analysis_failed", analysis.Failed(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return env, nil
}
