package common

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

	"prepscore/internal/errors"
	"prepscore/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultFormats = []string{"json", "text", "markdown"}

func discardLogger() *errors.Logger {
	return errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   string
	}{
		{name: "json", format: "json", supported: defaultFormats},
		{name: "markdown", format: "markdown", supported: defaultFormats},
		{name: "unknown", format: "xml", supported: defaultFormats,
			wantErr: "unsupported output format 'xml'. Supported formats: [json text markdown]"},
		{name: "case sensitive", format: "JSON", supported: defaultFormats,
			wantErr: "unsupported output format 'JSON'"},
		{name: "empty format", format: "", supported: defaultFormats,
			wantErr: "unsupported output format ''"},
		{name: "no configuration allows registered formats", format: "text", supported: nil},
		{name: "no configuration still rejects unknown", format: "xml", supported: nil,
			wantErr: "Supported formats: [json markdown text]"},
		{name: "configured but not registered", format: "yaml", supported: []string{"json", "yaml"},
			wantErr: "Supported formats: [json]"},
		{name: "single format", format: "text", supported: []string{"json"},
			wantErr: "Supported formats: [json]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetSupportedFormats(t *testing.T) {
	tests := []struct {
		name       string
		configured []string
		expected   []string
	}{
		{name: "configured order kept", configured: []string{"markdown", "json"}, expected: []string{"markdown", "json"}},
		{name: "empty falls back to registry", configured: nil, expected: []string{"json", "markdown", "text"}},
		{name: "unregistered dropped", configured: []string{"xml", "text", "csv"}, expected: []string{"text"}},
		{name: "duplicates dropped", configured: []string{"json", "json"}, expected: []string{"json"}},
		{name: "nothing usable", configured: []string{"yaml"}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetSupportedFormats(tt.configured))
		})
	}
}

func TestFileProcessorReadFile(t *testing.T) {
	fp := NewFileProcessor(discardLogger(), 0)
	dir := t.TempDir()

	path := filepath.Join(dir, "answer.txt")
	require.NoError(t, os.WriteFile(path, []byte("I reduced latency by 40%."), 0600))

	content, err := fp.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "I reduced latency by 40%.", content)

	_, err = fp.ReadFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
	assert.Contains(t, err.Error(), "File not found")

	broken := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("not a pdf"), 0600))
	_, err = fp.ReadFile(broken)
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodePDFExtraction, appErr.Code)
}

func TestFileProcessorValidateAndReadFiles(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.md")
	large := filepath.Join(dir, "large.txt")
	require.NoError(t, os.WriteFile(small, []byte("short"), 0600))
	require.NoError(t, os.WriteFile(large, []byte(strings.Repeat("x", 2048)), 0600))

	fp := NewFileProcessor(discardLogger(), 1024)

	contents, err := fp.ValidateAndReadFiles(small)
	require.NoError(t, err)
	assert.Equal(t, []string{"short"}, contents)

	_, err = fp.ValidateAndReadFiles(small, large)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "larger than the 1.0 KB limit")

	_, err = fp.ValidateAndReadFiles(dir)
	assert.ErrorContains(t, err, "directory")
}

func TestFileProcessorWriteFile(t *testing.T) {
	fp := NewFileProcessor(discardLogger(), 0)
	target := filepath.Join(t.TempDir(), "nested", "out", "report.txt")

	require.NoError(t, fp.WriteFile(target, "report"))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "report", string(data))
}

func TestOutputHandler(t *testing.T) {
	summary := types.LexiconSummary{Version: "1", Source: "built-in", Tables: map[string]int{"stop_words": 3}}

	var buf bytes.Buffer
	oh := NewOutputHandlerWithWriter(discardLogger(), &buf)

	require.NoError(t, oh.HandleOutput(summary, CommandConfig{OutputFormat: "text"}))
	assert.Contains(t, buf.String(), "Lexicon 1 (built-in)")

	target := filepath.Join(t.TempDir(), "summary.json")
	buf.Reset()
	require.NoError(t, oh.HandleOutput(summary, CommandConfig{OutputFormat: "json", OutputFile: target}))
	assert.Empty(t, buf.String())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var decoded types.LexiconSummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary, decoded)

	err = oh.HandleOutput(summary, CommandConfig{OutputFormat: "yaml"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	assert.Contains(t, oh.GetSupportedFormats(), "markdown")
}

func TestRunScoreCommandTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Python Go SQL"), 0600))

	createInput := func(contents []string) (string, error) { return contents[0], nil }
	var logged string
	logDetails := func(input string, cc CommandConfig) { logged = cc.OutputFormat }

	var buf bytes.Buffer
	err := RunScoreCommandTo(context.Background(), discardLogger(),
		CommandConfig{OutputFormat: "json"}, []string{path}, createInput,
		func(ctx context.Context, text string) (types.LexiconSummary, error) {
			return types.LexiconSummary{Version: "test", Source: text}, nil
		},
		logDetails, &buf)
	require.NoError(t, err)
	assert.Equal(t, "json", logged)
	assert.Contains(t, buf.String(), `"source": "Python Go SQL"`)

	failure := errors.NewScoringError(errors.ErrCodeScoringCancelled, "cancelled", context.Canceled)
	err = RunScoreCommandTo(context.Background(), discardLogger(),
		CommandConfig{OutputFormat: "json"}, []string{path}, createInput,
		func(ctx context.Context, text string) (types.LexiconSummary, error) {
			return types.LexiconSummary{}, failure
		},
		nil, &buf)
	assert.ErrorIs(t, err, context.Canceled)
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	for b.Loop() {
		_ = ValidateOutputFormat("markdown", defaultFormats)
	}
}
