package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"err":     slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) expected %v got %v", input, want, got)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: "info", Format: "json"})
	logger.Info("reservation created", slog.String("confirmationCode", "SB12345678"))

	if !strings.Contains(buf.String(), `"confirmationCode":"SB12345678"`) {
		t.Fatalf("expected json attribute, got %s", buf.String())
	}
}

func TestSetupWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	closer, _, logger, err := Setup(Config{Directory: dir, Format: "text"}, time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "2026-10-18.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("log file missing entry: %s", data)
	}
}
