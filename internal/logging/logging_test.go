package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/jub0bs/hostcors/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{name: "TRACE", input: "TRACE", want: logging.LevelTrace},
		{name: "DEBUG", input: "DEBUG", want: slog.LevelDebug},
		{name: "INFO", input: "INFO", want: slog.LevelInfo},
		{name: "WARN", input: "WARN", want: slog.LevelWarn},
		{name: "WARNING", input: "WARNING", want: slog.LevelWarn},
		{name: "ERROR", input: "ERROR", want: slog.LevelError},
		{name: "lower case", input: "info", want: slog.LevelInfo, wantErr: true},
		{name: "empty", input: "", want: slog.LevelInfo, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var target *logging.InvalidLevelError
			require.True(t, errors.As(err, &target))
			assert.Equal(t, tt.input, target.Level)
			assert.Contains(t, err.Error(), "unknown log level")
		})
	}
}

func TestLevelTraceIsBelowDebug(t *testing.T) {
	assert.Equal(t, slog.Level(-8), logging.LevelTrace)
	assert.Less(t, logging.LevelTrace, slog.LevelDebug)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelWarn)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown", slog.String("origin", "https://example.com"))
	out := buf.String()
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "https://example.com")
}

func TestNewTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.LevelTrace)
	logger.Log(t.Context(), logging.LevelTrace, "very detailed")
	assert.Contains(t, buf.String(), "TRC")
	assert.Contains(t, buf.String(), "very detailed")
}

func TestNewFromString(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewFromString(&buf, "DEBUG")
	require.NoError(t, err)
	logger.Debug("debugging")
	assert.Contains(t, buf.String(), "debugging")

	logger, err = logging.NewFromString(&buf, "NOPE")
	assert.Nil(t, logger)
	assert.Error(t, err)
}

func TestErr(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo)
	logger.Error("failure", logging.Err(errors.New("boom")))
	assert.Contains(t, buf.String(), "boom")
}
