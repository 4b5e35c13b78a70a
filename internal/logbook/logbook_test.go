package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sema.log")
	lb, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	defer lb.Close()

	lb.Info("session opened")
	lb.Warn("match took %ds", 12)
	lb.Error("add member failed: %s", "backend down")

	lines := lb.Tail(10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "INFO") || !strings.Contains(lines[0], "session opened") {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if !strings.Contains(lines[2], "ERROR") {
		t.Fatalf("unexpected last line: %q", lines[2])
	}
}

func TestTailLimitsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sema.log")
	lb, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer lb.Close()

	for i := 0; i < 20; i++ {
		lb.Info("entry %d", i)
	}
	lines := lb.Tail(5)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[4], "entry 19") {
		t.Fatalf("tail must keep the newest entries, got %q", lines[4])
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var lb *Logbook
	lb.Info("ignored")
	if lb.Tail(3) != nil {
		t.Fatalf("nil logbook must return no lines")
	}
	if lb.Path() != "" {
		t.Fatalf("nil logbook has no path")
	}
	if err := lb.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
