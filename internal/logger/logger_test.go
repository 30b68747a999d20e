package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/aryamansrivastava/account-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := build(&buf, "warn", false)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", slog.String("user_id", "u1"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "u1", line["user_id"])
}

func TestBuild_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger, err := build(&buf, "info", true)
	require.NoError(t, err)

	logger.Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Params{Config: &config.Config{LogLevel: "loud"}})

	assert.Error(t, err)
}
