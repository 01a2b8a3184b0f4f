package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "shelf.log")
	cfg := DefaultConfig()
	cfg.Output = path
	cfg.Level = "debug"

	logger, closeLog, err := New(cfg)
	require.NoError(t, err)
	logger.Named("store").Info("object created", zap.String("id", "7"))
	logger.Debug("request completed")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "store", entry["logger"])
	assert.Equal(t, "object created", entry["msg"])
	assert.Equal(t, "7", entry["id"])
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.log")
	logger, closeLog, err := New(Config{Level: "warn", Output: path})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_DisabledIsNop(t *testing.T) {
	for _, output := range []string{"", Disabled} {
		logger, closeLog, err := New(Config{Output: output})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
		assert.NoError(t, closeLog())
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
	assert.True(t, ValidLevel(" error "))
	assert.False(t, ValidLevel("chatty"))
}
