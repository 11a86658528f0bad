package common

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseJSON(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}
	require.NoError(t, ParseJSON(` {"title":"Toast"} `, &v))
	assert.Equal(t, "Toast", v.Title)

	assert.Error(t, ParseJSON(`{"title":"Toast"} {"title":"again"}`, &v))
	assert.Error(t, ParseJSON(`{"title":`, &v))
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"text ```{}``` more":      "text ```{}``` more",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripCodeFence(in), in)
	}
}

func TestQuoteJSONKeys(t *testing.T) {
	assert.Equal(t,
		`{"title": "Toast", "ingredients": [{"item": "bread"}]}`,
		QuoteJSONKeys(`{title: "Toast", ingredients: [{item: "bread"}]}`),
	)
	assert.Equal(t, `{"title": 1}`, QuoteJSONKeys(`{"title": 1}`))
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":{"b":1}}`, ExtractJSONObject(`Sure! {"a":{"b":1}} Enjoy.`))
	assert.Equal(t, "no braces", ExtractJSONObject("no braces"))
	assert.Equal(t, "} backwards {", ExtractJSONObject("} backwards {"))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "****", MaskSecret("abc"))
	assert.Equal(t, "****1234", MaskSecret("AIzaSyExample1234"))
}

func TestCustomError(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrInternalError.WithMessage("save failed").WithCause(cause)

	assert.ErrorIs(t, err, ErrInternalError)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "save failed", err.Message)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "disk full", err.Error())
	assert.Equal(t, "request timed out", ErrGatewayTimeout.Error())

	var custom *CustomError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &custom)
	assert.Equal(t, ErrCodeInternalError, custom.Code)
}

func TestLogHelpers_Redaction(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger
	Logger = zap.New(core)
	t.Cleanup(func() { Logger = prev })

	LogInfo("parsed", zap.String("text", "secret family recipe"), zap.String("api_key", "AIza"), zap.Int("count", 3))
	LogWarn("auth", zap.String("refresh_token", "x"), zap.String("db_password", "y"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{"count": int64(3)}, entries[0].ContextMap())
	assert.Empty(t, entries[1].ContextMap())
}

func TestLogInfo_ConciseMode(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prevLogger, prevMode := Logger, LogMode
	Logger, LogMode = zap.New(core), "concise"
	t.Cleanup(func() { Logger, LogMode = prevLogger, prevMode })

	LogInfo("router setup completed")
	LogInfo(MsgRequestCompleted)
	LogWarn("still shown")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, MsgRequestCompleted, entries[0].Message)
	assert.Equal(t, "still shown", entries[1].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

func TestInitLogger_FileSink(t *testing.T) {
	prevLogger, prevMode := Logger, LogMode
	t.Cleanup(func() { Logger, LogMode = prevLogger, prevMode })

	dir := t.TempDir()
	require.NoError(t, InitLogger(LogOptions{Level: "info", Dir: dir, Mode: "verbose"}))
	assert.Equal(t, "verbose", LogMode)
	LogInfo("hello")
	Sync()
	assert.FileExists(t, filepath.Join(dir, "app.log"))
}
