package iologger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in  string
		exp slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.exp, parseLevel(tt.in), tt.in)
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf, config.LogConfig{Format: "json", Level: "warn"})
	log := slog.New(h)

	log.Info("hidden")
	log.Warn("shown", "path", "a.jpg")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "a.jpg", rec["path"])

	buf.Reset()
	h = newHandler(&buf, config.LogConfig{Format: "tint", Level: "debug"})
	slog.New(h).Debug("plain", "stage", "Extracting")
	assert.Contains(t, buf.String(), "msg=plain")
	assert.Contains(t, buf.String(), "stage=Extracting")
}

func TestInit_File(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}
	closer, err := Init(dir, cfg)
	require.NoError(t, err)

	slog.Info("first")
	require.NoError(t, closer.Close())

	closer, err = Init(dir, cfg)
	require.NoError(t, err)
	slog.Info("second")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"first"`)
	assert.Contains(t, string(data), `"msg":"second"`,
		"log file should be appended")
}

func TestInit_Error(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	_, err := Init(missing, config.LogConfig{Destination: "file"})
	assert.True(t, errcode.Is(err, errcode.CreateLogFileError))
}
