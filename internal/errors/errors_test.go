package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	cause := fmt.Errorf("disk unplugged")
	err := NewIOError(ErrCodeFileNotReadable, "cannot read resume.txt", cause)

	assert.Equal(t, "FILE_NOT_READABLE: cannot read resume.txt (caused by: disk unplugged)", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := NewValidationError(ErrCodeUnknownQuestionType, "unknown question type", nil)
	assert.Equal(t, "UNKNOWN_QUESTION_TYPE: unknown question type", plain.Error())
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewConfigError(ErrCodeInvalidLexicon, "bad lexicon", nil))

	assert.True(t, IsType(err, ErrorTypeConfig))
	assert.False(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeConfig))
}

func TestLogErrorIncludesContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo)

	err := NewValidationError(ErrCodeInvalidRequest, "answer is required", nil).
		WithContext("field", "answer")
	logger.LogError(err, "Request rejected", "request_id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Request rejected", entry["msg"])
	assert.Equal(t, "validation", entry["error_type"])
	assert.Equal(t, "INVALID_REQUEST", entry["error_code"])
	assert.Equal(t, "answer", entry["field"])
	assert.Equal(t, "abc", entry["request_id"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("verbose")
	assert.Error(t, err)

	logger, err := New("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
