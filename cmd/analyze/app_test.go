package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/placeholder-analyzer/internal/extract"
	"github.com/joseph-ayodele/placeholder-analyzer/internal/llm"
)

type stubAnalyzer struct {
	res  llm.AnalysisResult
	seen []string
}

func (s *stubAnalyzer) Analyze(_ context.Context, content string) llm.AnalysisResult {
	s.seen = append(s.seen, content)
	return s.res
}

type panicAnalyzer struct{}

func (panicAnalyzer) Analyze(context.Context, string) llm.AnalysisResult {
	panic("analyzer exploded")
}

func newTestApp(an llm.PlaceholderAnalyzer) (*app, *bytes.Buffer, *bytes.Buffer) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var stdout, stderr bytes.Buffer
	return &app{
		logger:    logger,
		extractor: extract.NewExtractor(logger),
		analyzer:  an,
		stdout:    &stdout,
		stderr:    &stderr,
	}, &stdout, &stderr
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func decodeFatal(t *testing.T, stderr *bytes.Buffer) fatalEnvelope {
	t.Helper()
	line := strings.TrimSpace(stderr.String())
	var env fatalEnvelope
	require.NoError(t, json.Unmarshal([]byte(line), &env), "stderr: %s", line)
	return env
}

func TestExecuteSuccessPrintsEnvelope(t *testing.T) {
	an := &stubAnalyzer{res: llm.AnalysisResult{Placeholders: []json.RawMessage{}}}
	a, stdout, stderr := newTestApp(an)
	path := writeDoc(t, "upload-1", "This lease is between John Smith and Acme LLC.")

	code := a.execute(context.Background(), []string{"lease.txt", path})

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "{\"file_name\": \"lease.txt\", \"analysis\": {\"placeholders\": []}}\n", stdout.String())
	assert.JSONEq(t, `{"file_name": "lease.txt", "analysis": {"placeholders": []}}`, stdout.String())
	assert.Empty(t, stderr.String())
	assert.Equal(t, []string{"This lease is between John Smith and Acme LLC."}, an.seen)
}

func TestExecuteAnalysisErrorStillExitsZero(t *testing.T) {
	raw := `{"not": "an array"}`
	an := &stubAnalyzer{res: llm.AnalysisResult{
		Error:       "Invalid response format: Expected a JSON array of objects",
		RawResponse: &raw,
	}}
	a, stdout, _ := newTestApp(an)
	path := writeDoc(t, "doc.txt", "text")

	code := a.execute(context.Background(), []string{"doc.txt", path})

	require.Equal(t, 0, code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	analysis := out["analysis"].(map[string]any)
	assert.Equal(t, raw, analysis["raw_response"])
	assert.NotContains(t, analysis, "placeholders")
}

func TestExecuteDashPrefixedArguments(t *testing.T) {
	an := &stubAnalyzer{res: llm.AnalysisResult{Placeholders: []json.RawMessage{}}}
	a, stdout, stderr := newTestApp(an)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.WriteFile("-notes.txt", []byte("Signed by -J. Doe-"), 0o600))

	code := a.execute(context.Background(), []string{"-draft.txt", "-notes.txt"})

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "{\"file_name\": \"-draft.txt\", \"analysis\": {\"placeholders\": []}}\n", stdout.String())
	assert.Equal(t, []string{"Signed by -J. Doe-"}, an.seen)
}

func TestExecuteFlagsAroundDashPrefixedName(t *testing.T) {
	an := &stubAnalyzer{res: llm.AnalysisResult{Placeholders: []json.RawMessage{
		json.RawMessage(`{"placeholder":"Jane Doe","description":"Tenant","explanation":"Party","newValue":""}`),
	}}}
	a, _, stderr := newTestApp(an)
	path := writeDoc(t, "doc.txt", "text")
	dir := t.TempDir()

	code := a.execute(context.Background(), []string{"--save-dir=" + dir, "-v2.txt", path})

	require.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, filepath.Join(dir, "-v2_analysis.json"))
}

func TestExecuteOneArgumentIsUsageError(t *testing.T) {
	an := &stubAnalyzer{}
	a, stdout, stderr := newTestApp(an)

	code := a.execute(context.Background(), []string{"only-name.txt"})

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	env := decodeFatal(t, stderr)
	assert.True(t, strings.HasPrefix(env.Error, "An unexpected error occurred: usage: analyze"), env.Error)
	assert.NotEmpty(t, env.Traceback)
	assert.Empty(t, an.seen)
}

func TestExecuteUnreadableFile(t *testing.T) {
	an := &stubAnalyzer{}
	a, stdout, stderr := newTestApp(an)
	missing := filepath.Join(t.TempDir(), "gone.txt")

	code := a.execute(context.Background(), []string{"gone.txt", missing})

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	env := decodeFatal(t, stderr)
	assert.Contains(t, env.Error, "gone.txt")
	// the extractor attaches a stack trace
	assert.Contains(t, env.Traceback, "extract")
	assert.Empty(t, an.seen)
}

func TestExecuteRecoversPanics(t *testing.T) {
	a, _, stderr := newTestApp(panicAnalyzer{})
	path := writeDoc(t, "doc.txt", "text")

	code := a.execute(context.Background(), []string{"doc.txt", path})

	assert.Equal(t, 1, code)
	env := decodeFatal(t, stderr)
	assert.Contains(t, env.Error, "analyzer exploded")
}

func TestExecuteSaveDirWritesArtifact(t *testing.T) {
	an := &stubAnalyzer{res: llm.AnalysisResult{Placeholders: []json.RawMessage{
		json.RawMessage(`{"placeholder":"Acme LLC","description":"Company","explanation":"Landlord","newValue":""}`),
	}}}
	a, _, stderr := newTestApp(an)
	path := writeDoc(t, "doc.txt", "text")
	dir := t.TempDir()

	code := a.execute(context.Background(), []string{"lease.v1.txt", path, "--save-dir", dir})

	require.Equal(t, 0, code, stderr.String())
	b, err := os.ReadFile(filepath.Join(dir, "lease_analysis.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "Acme LLC")
}

func TestRunWithoutAPIKeyExitsBeforeArgs(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"a.txt", "a.txt"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "OPENAI_API_KEY")
}

func TestRunOneArgumentWritesErrorJSON(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LOG_LEVEL", "error")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"a.txt"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())

	var env fatalEnvelope
	found := false
	for _, line := range strings.Split(stderr.String(), "\n") {
		if strings.HasPrefix(line, "{") {
			require.NoError(t, json.Unmarshal([]byte(line), &env))
			found = true
		}
	}
	require.True(t, found, "no JSON error object on stderr: %s", stderr.String())
	assert.Contains(t, env.Error, "usage")
}
