package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "warn", Console: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", zap.String("category", "07"))
	_ = log.Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"category": "07"`)
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thinxi.log")
	log, err := New(Options{Level: "debug", File: path, MaxSizeMB: 1, Console: &bytes.Buffer{}})
	require.NoError(t, err)

	log.Debug("question saved", zap.String("id", "07-03-20250314-092653"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "question saved", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "07-03-20250314-092653", entry["id"])
}
