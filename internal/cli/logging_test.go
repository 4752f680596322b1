package cli

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLogLevelOrDefault(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevelOrDefault(tt.input); got != tt.want {
			t.Errorf("ParseLogLevelOrDefault(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLoggers(t *testing.T) {
	stdout, stderr := NewLoggers(slog.LevelInfo)
	if stdout == nil || stderr == nil {
		t.Fatal("NewLoggers returned nil logger")
	}
	ctx := context.Background()
	if !stdout.Enabled(ctx, slog.LevelInfo) {
		t.Error("info level should be enabled")
	}
	if stdout.Enabled(ctx, slog.LevelDebug) {
		t.Error("debug level should be disabled at info")
	}
}
