package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// rotatingWriter appends to one log file per ISO week, starting a numbered
// sibling when the current file reaches maxFileSize, and deletes files older
// than the retention window during rotation.
type rotatingWriter struct {
	dir         string
	retention   time.Duration
	maxFileSize int64

	mu      sync.Mutex
	file    *os.File
	week    string
	size    int64
	counter int
}

func newRotatingWriter(dir string, retentionWeeks int, maxFileSize int64) (*rotatingWriter, error) {
	w := &rotatingWriter{
		dir:         dir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.rotate(weekKey(time.Now())); err != nil {
		return nil, err
	}
	return w, nil
}

// weekKey returns the ISO week label, e.g. "2026-W35".
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	week := weekKey(time.Now())
	if w.file == nil || week != w.week || (w.maxFileSize > 0 && w.size+int64(len(p)) > w.maxFileSize) {
		if err := w.rotate(week); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// rotate opens the next log file for week and prunes expired files.
// Caller holds w.mu.
func (w *rotatingWriter) rotate(week string) error {
	if w.file != nil {
		_ = w.file.Close()
	}
	if week != w.week {
		w.counter = 0
	} else {
		w.counter++
	}

	name := fmt.Sprintf("app-%s.log", week)
	if w.counter > 0 {
		name = fmt.Sprintf("app-%s_%02d.log", week, w.counter)
	}

	path := filepath.Join(w.dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	size := int64(0)
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}

	w.file = file
	w.week = week
	w.size = size

	w.cleanup()
	return nil
}

// cleanup deletes app-*.log files older than the retention window.
func (w *rotatingWriter) cleanup() {
	if w.retention <= 0 {
		return
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-w.retention)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "app-") || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(w.dir, entry.Name()))
		}
	}
}
