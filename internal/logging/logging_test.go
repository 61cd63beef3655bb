package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "text", &buf)

	logger.Info("run complete", "rule", "SPT")

	output := buf.String()
	if !strings.Contains(output, "run complete") {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "rule=SPT") {
		t.Errorf("expected 'rule=SPT' in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "JSON", &buf)

	logger.Info("run complete", "rule", "SPT")

	output := buf.String()
	if !strings.Contains(output, `"msg":"run complete"`) {
		t.Errorf("expected JSON msg field in output, got: %s", output)
	}
	if !strings.Contains(output, `"rule":"SPT"`) {
		t.Errorf("expected JSON rule field in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelWarn, "text", &buf)

	logger.Debug("simulation complete")
	logger.Warn("forcing clock forward")

	output := buf.String()
	if strings.Contains(output, "simulation complete") {
		t.Errorf("DEBUG message should be filtered at WARN level, got: %s", output)
	}
	if !strings.Contains(output, "forcing clock forward") {
		t.Errorf("WARN message should appear at WARN level, got: %s", output)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("nobody hears this")
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug to be disabled on the discard logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLevelStrict(t *testing.T) {
	if _, err := ParseLevelStrict("warn"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseLevelStrict("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "TEXT"} {
		if !ValidFormat(f) {
			t.Errorf("expected %q to be valid", f)
		}
	}
	if ValidFormat("xml") {
		t.Error("expected xml to be invalid")
	}
}
