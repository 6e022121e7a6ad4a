package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joseph-ayodele/placeholder-analyzer/internal/common"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/extract"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/llm"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/llm/openai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run performs startup configuration, then hands the arguments to the command.
// Configuration problems exit before any argument is looked at.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	boot := newLogger(stderr, slog.LevelDebug)
	if err := common.LoadDotEnv(); err != nil {
		boot.Error("failed to load .env file", "error", err)
		return 1
	}

	cfg := common.LoadConfig()
	logger := newLogger(stderr, cfg.Log.Level)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("No OpenAI API key found. Please set the OPENAI_API_KEY environment variable.", "error", err)
		return 1
	}

	cwd, _ := os.Getwd()
	exe, _ := os.Executable()
	logger.Info("analyze.start", "go_version", runtime.Version(), "cwd", cwd, "executable", exe)

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	analyzer, err := llm.NewAnalyzer(client, logger)
	if err != nil {
		logger.Error("failed to build analyzer", "error", err)
		return 1
	}

	a := &app{
		logger:    logger,
		extractor: extract.NewExtractor(logger),
		analyzer:  analyzer,
		stdout:    stdout,
		stderr:    stderr,
	}
	return a.execute(ctx, args)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
