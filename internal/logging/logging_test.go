package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("chatty"); err == nil {
		t.Fatalf("ParseLevel accepted an unknown level")
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("fetch failed", "screen", "dashboard")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level:\n%s", out)
	}
	for _, want := range []string{"level=WARN", `msg="fetch failed"`, "screen=dashboard", "app=rescuetui"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestOpenFile_CreatesDirectoryAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rescuetui.log")

	for i := 0; i < 2; i++ {
		log, closer, err := OpenFile(path, "debug")
		if err != nil {
			t.Fatalf("OpenFile returned error: %v", err)
		}
		log.Debug("line")
		if err := closer.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if n := strings.Count(string(raw), "msg=line"); n != 2 {
		t.Fatalf("found %d lines, want 2:\n%s", n, raw)
	}
}

func TestOpenFile_RejectsBadLevel(t *testing.T) {
	if _, _, err := OpenFile(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Fatalf("OpenFile accepted an unknown level")
	}
}
