// utils/runlog.go
package utils

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// RunLog is the human-readable sync log file. Only the latest cycle is
// kept: Reset truncates the file at the start of each run. Lines carry a
// timestamp prefix so the file reads like the operational log it replaces.
type RunLog struct {
	mu   sync.Mutex
	path string
}

func NewRunLog(path string) *RunLog {
	return &RunLog{path: path}
}

// Reset truncates the log so the file only ever holds the current cycle.
func (l *RunLog) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.Create(l.path)
	if err != nil {
		return err
	}
	return f.Close()
}

// Printf appends one timestamped line. Logging failures are swallowed:
// the run log is a side concern and must never fail a sync cycle.
func (l *RunLog) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// Tail returns up to n trailing lines of the log file.
func (l *RunLog) Tail(n int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
