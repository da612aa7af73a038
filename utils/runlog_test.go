// utils/runlog_test.go
package utils

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunLogKeepsOnlyCurrentCycle(t *testing.T) {
	log := NewRunLog(filepath.Join(t.TempDir(), "sync_log.txt"))

	log.Printf("cycle one line")
	if err := log.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	log.Printf("cycle two line")

	lines, err := log.Tail(50)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line after reset, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "cycle two line") {
		t.Errorf("line = %q, want the post-reset entry", lines[0])
	}
	if !strings.HasPrefix(lines[0], "[") {
		t.Errorf("line = %q, want a timestamp prefix", lines[0])
	}
}

func TestRunLogTailLimitsLines(t *testing.T) {
	log := NewRunLog(filepath.Join(t.TempDir(), "sync_log.txt"))
	for i := 0; i < 10; i++ {
		log.Printf("line %d", i)
	}

	lines, err := log.Tail(3)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[2], "line 9") {
		t.Errorf("last line = %q, want the most recent entry", lines[2])
	}
}

func TestRunLogTailMissingFile(t *testing.T) {
	log := NewRunLog(filepath.Join(t.TempDir(), "nope.txt"))

	lines, err := log.Tail(10)
	if err != nil {
		t.Fatalf("Tail() on missing file error = %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no lines, got %v", lines)
	}
}
