package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/placeholder-analyzer/constants"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/common"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/llm"
)

const sheetName = "Placeholders"

// Options selects which artifacts are written. Empty fields disable that artifact.
type Options struct {
	SaveDir  string // directory for <stem>_analysis.json
	XLSXPath string // workbook path
}

func (o Options) Enabled() bool {
	return o.SaveDir != "" || o.XLSXPath != ""
}

// Service writes analysis artifacts next to the stdout envelope.
type Service struct {
	opts   Options
	logger *slog.Logger
}

func NewService(opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{opts: opts, logger: logger}
}

// Export writes every configured artifact for a successful analysis. Failed
// analyses are skipped so no artifact ever holds an error object.
func (s *Service) Export(ctx context.Context, fileName string, res llm.AnalysisResult) error {
	if !s.opts.Enabled() {
		return nil
	}
	if res.Failed() {
		s.logger.Warn("export.skipped", "file_name", fileName, "reason", "analysis failed")
		return nil
	}
	if s.opts.SaveDir != "" {
		if _, err := s.WriteAnalysisJSON(fileName, res); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.opts.XLSXPath != "" {
		if err := s.WriteXLSX(fileName, res); err != nil {
			return err
		}
	}
	return nil
}

// WriteAnalysisJSON stores {"analysis": {"placeholders": [...]}} as
// <SaveDir>/<stem>_analysis.json and returns the written path.
func (s *Service) WriteAnalysisJSON(fileName string, res llm.AnalysisResult) (string, error) {
	doc := struct {
		Analysis llm.AnalysisResult `json:"analysis"`
	}{res}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode analysis: %w", common.ErrExport, err)
	}
	if err := os.MkdirAll(s.opts.SaveDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrExport, err)
	}
	path := filepath.Join(s.opts.SaveDir, constants.Stem(fileName)+"_analysis.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrExport, err)
	}
	s.logger.Info("export.json.ok", "path", path, "placeholders", len(res.Placeholders))
	return path, nil
}

// WriteXLSX writes the placeholder workbook to XLSXPath.
func (s *Service) WriteXLSX(fileName string, res llm.AnalysisResult) error {
	b, err := s.PlaceholdersXLSX(fileName, res)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.opts.XLSXPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", common.ErrExport, err)
		}
	}
	if err := os.WriteFile(s.opts.XLSXPath, b, 0o644); err != nil {
		return fmt.Errorf("%w: %w", common.ErrExport, err)
	}
	return nil
}

// PlaceholdersXLSX returns an XLSX workbook (as bytes) with one row per placeholder
// and an empty-by-default "New Value" column for the user to fill in.
func (s *Service) PlaceholdersXLSX(fileName string, res llm.AnalysisResult) ([]byte, error) {
	start := time.Now()

	placeholders, err := res.Decode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrExport, err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close_error", "error", err)
		}
	}()
	if index, _ := f.GetSheetIndex(sheetName); index == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrExport, err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Placeholder", "Description", "Explanation", "New Value"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for i, p := range placeholders {
		row := i + 2
		for col, v := range []string{p.Placeholder, p.Description, p.Explanation, p.NewValue} {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellStr(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 28) // placeholder
	_ = f.SetColWidth(sheetName, "B", "B", 28) // description
	_ = f.SetColWidth(sheetName, "C", "C", 60) // explanation
	_ = f.SetColWidth(sheetName, "D", "D", 28) // new value

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx write: %w", common.ErrExport, err)
	}

	s.logger.Info("export.xlsx.ok",
		"file_name", fileName,
		"rows", len(placeholders),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
