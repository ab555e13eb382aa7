package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestJSONHandlerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(newHandler(&buf, Options{Level: "warn", JSON: true}))

	l.Info("hidden")
	l.Warn("shown", "table_id", "t1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line leaked through warn level: %s", out)
	}
	if !strings.Contains(out, `"table_id":"t1"`) {
		t.Fatalf("expected json attribute, got %s", out)
	}
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.log")
	Init(Options{Level: "debug", File: path})
	t.Cleanup(func() {
		_ = Close()
		Init(Options{Level: "info"})
	})

	Debug("file sink works", "n", 1)
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "file sink works") {
		t.Fatalf("log file missing line: %q", data)
	}
}

func TestGetLazyInitIsConcurrent(t *testing.T) {
	prev := defaultLogger.Swap(nil)
	t.Cleanup(func() { defaultLogger.Store(prev) })

	const n = 16
	got := make([]*slog.Logger, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = Get()
			With("table_id", i).Debug("lazy")
		}()
	}
	wg.Wait()

	for i, l := range got {
		if l == nil || l != got[0] {
			t.Fatalf("goroutine %d got logger %p, want %p", i, l, got[0])
		}
	}
}
