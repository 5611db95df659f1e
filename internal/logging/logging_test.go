package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			logger, err := New(tc.level, filepath.Join(t.TempDir(), "log.json"))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := logger.Level(); got != tc.want {
				t.Errorf("Level = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stlview.log")
	logger, err := New("info", path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("mesh loaded")
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "mesh loaded") {
		t.Errorf("log missing entry: %s", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("debug entry written at info level")
	}
}
