package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/placeholder-analyzer/internal/common"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/core"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/export"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/extract"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/llm"
)

type app struct {
	logger    *slog.Logger
	extractor extract.TextExtractor
	analyzer  llm.PlaceholderAnalyzer
	stdout    io.Writer
	stderr    io.Writer
}

// fatalEnvelope is written to stderr when a run cannot complete.
type fatalEnvelope struct {
	Error     string `json:"error"`
	Traceback string `json:"traceback"`
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func (a *app) rootCmd() *cobra.Command {
	var opts export.Options

	cmd := &cobra.Command{
		Use:   "analyze <file_name> <file_path>",
		Short: "Detect fill-in placeholders in a PDF or text document",
		Long: "analyze reads <file_path>, treating it as a PDF when <file_name> ends in .pdf and as UTF-8 text otherwise,\n" +
			"asks the model for candidate placeholders and prints {\"file_name\", \"analysis\"} as one JSON line.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: %s", cmd.UseLine())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileName, filePath := args[0], args[1]
			a.logger.Info("analyze.file", "file_name", fileName, "path", filePath)

			exporter := export.NewService(opts, a.logger)
			proc := core.NewProcessor(a.logger, a.extractor, a.analyzer, exporter)

			env, err := proc.ProcessFile(cmd.Context(), fileName, filePath)
			if err != nil {
				return err
			}

			if err := encodeLine(a.stdout, env); err != nil {
				return errors.Wrap(err, "write output")
			}
			a.logger.Info("analyze.done", "file_name", fileName, "analysis_failed", env.Analysis.Failed())
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.SaveDir, "save-dir", "", "also write <stem>_analysis.json into this directory")
	cmd.Flags().StringVar(&opts.XLSXPath, "xlsx", "", "also write the placeholders as an XLSX workbook to this path")
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	return cmd
}

// execute runs the command and is the only error boundary: any error or panic is
// reported as a fatal envelope on stderr with exit code 1.
func (a *app) execute(ctx context.Context, args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			code = a.fatal(errors.Errorf("panic: %v", r))
		}
	}()

	ctx = common.WithRequestID(ctx, uuid.New().String())
	cmd := a.rootCmd()
	cmd.SetArgs(orderArgs(args))
	if err := cmd.ExecuteContext(ctx); err != nil {
		return a.fatal(err)
	}
	return 0
}

func (a *app) fatal(err error) int {
	var st stackTracer
	if !errors.As(err, &st) {
		err = errors.WithStack(err)
	}
	env := fatalEnvelope{
		Error:     fmt.Sprintf("An unexpected error occurred: %v", err),
		Traceback: fmt.Sprintf("%+v", err),
	}
	a.logger.Error("analyze.fatal", "error", env.Error)
	if err := encodeLine(a.stderr, env); err != nil {
		fmt.Fprintf(a.stderr, "{\"error\": %q}\n", env.Error)
	}
	return 1
}
