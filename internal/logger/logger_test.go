package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{level: "error", expected: []string{"ERROR"}, excluded: []string{"WARN", "INFO", "DEBUG"}},
		{level: "warn", expected: []string{"ERROR", "WARN"}, excluded: []string{"INFO", "DEBUG"}},
		{level: "info", expected: []string{"ERROR", "WARN", "INFO"}, excluded: []string{"DEBUG"}},
		{level: "debug", expected: []string{"ERROR", "WARN", "INFO", "DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}

			require.NoError(t, InitWithFileConfig(tt.level, cfg, false))

			Log.Debug("debug message")
			Log.Info("info message")
			Log.Warn("warn message")
			Log.Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			require.NoError(t, err)
			logContent := string(content)

			for _, exp := range tt.expected {
				assert.Contains(t, logContent, `"level":"`+exp+`"`)
			}
			for _, exc := range tt.excluded {
				assert.NotContains(t, logContent, `"level":"`+exc+`"`)
			}
		})
	}
}

func TestNamedLoggerWritesFields(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")
	require.NoError(t, InitWithFileConfig("info", DefaultFileConfig(logFile), false))

	Named("sculpt").Info("stroke committed", zap.Int("vertices", 12))
	Sync()

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	line := strings.TrimSpace(string(content))
	assert.Contains(t, line, `"logger":"sculpt"`)
	assert.Contains(t, line, `"vertices":12`)
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/sculpt.log")

	assert.Equal(t, "/tmp/sculpt.log", cfg.Path)
	assert.Equal(t, 20, cfg.MaxSizeMB)
	assert.Equal(t, 3, cfg.MaxBackups)
	assert.Equal(t, 7, cfg.MaxAgeDays)
	assert.True(t, cfg.Compress)
}
