package common

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0, 0, 3, 4); got != 3 {
		t.Errorf("Coalesce(0, 0, 3, 4) = %d, want 3", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("Coalesce(\"\", \"\") = %q, want empty", got)
	}
}

func TestSliceToBytes(t *testing.T) {
	if got := SliceToBytes([]uint16{}); got != nil {
		t.Errorf("SliceToBytes(empty) = %v, want nil", got)
	}
	got := SliceToBytes([]uint16{1, 2, 3})
	if len(got) != 6 {
		t.Fatalf("len(SliceToBytes) = %d, want 6", len(got))
	}
}

func TestLoggerDefaultIsSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTextLogger(&buf, "warn"))
	defer SetLogger(nil)

	Logger().Info("hidden")
	Logger().Warn("shown", "scene", "default")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "scene=default") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
