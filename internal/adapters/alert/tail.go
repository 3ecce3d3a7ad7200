package alert

import (
	"strings"
	"sync"
)

// TailWriter is a zap write sink that keeps the most recent log lines in
// memory so they can be handed to the alerting collaborator on failure.
type TailWriter struct {
	mu    sync.Mutex
	max   int
	lines []string
}

// NewTailWriter keeps at most max lines.
func NewTailWriter(max int) *TailWriter {
	if max <= 0 {
		max = 100
	}
	return &TailWriter{max: max}
}

// Write splits p into lines and appends them, dropping the oldest lines
// beyond the cap.
func (w *TailWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		w.lines = append(w.lines, line)
	}
	if over := len(w.lines) - w.max; over > 0 {
		w.lines = w.lines[over:]
	}
	return len(p), nil
}

// Sync satisfies zapcore.WriteSyncer.
func (w *TailWriter) Sync() error { return nil }

// Lines returns a copy of the buffered tail.
func (w *TailWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.lines))
	copy(out, w.lines)
	return out
}
