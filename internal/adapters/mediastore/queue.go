package mediastore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"xposter/internal/core/domain"
)

// CursorFile is the hidden sidecar file inside the media directory that
// persists the round-robin cursor as a single integer.
const CursorFile = ".poster_cursor"

// supportedExtensions lists the file types eligible for posting.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".mkv":  true,
	".gif":  true,
}

// Store implements ports.Selector on top of a local media directory.
// The queue is recomputed fresh on every call: the cursor indexes this
// run's snapshot, not a stable file identity.
type Store struct {
	dir    string
	logger *zap.Logger
}

// New creates a Store for the given media directory.
func New(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger.Named("mediastore")}
}

// SelectNext picks the file at the current cursor, then advances and
// persists the cursor before returning. The write happens before any
// network activity so a selection is never lost; a later publish failure
// still consumes the slot.
func (s *Store) SelectNext(ctx context.Context) (domain.Selection, error) {
	files, err := s.listQueue()
	if err != nil {
		return domain.Selection{}, fmt.Errorf("failed to list media directory %s: %w", s.dir, err)
	}
	if len(files) == 0 {
		return domain.Selection{}, fmt.Errorf("%w: %s", domain.ErrEmptyQueue, s.dir)
	}

	idx := s.readCursor(len(files))
	next := (idx + 1) % len(files)
	s.writeCursor(next)

	s.logger.Info("Selected media file",
		zap.String("file", files[idx]),
		zap.Int("index", idx),
		zap.Int("total", len(files)),
		zap.Int("next_cursor", next),
	)

	return domain.Selection{
		Path:  filepath.Join(s.dir, files[idx]),
		Index: idx,
		Total: len(files),
	}, nil
}

// listQueue returns the eligible file names in deterministic lexicographic
// order. Hidden files (the cursor file included) are skipped.
func (s *Store) listQueue() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if supportedExtensions[ext] {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// readCursor loads the stored cursor. Any read or parse failure, and any
// out-of-range value, recovers to 0 rather than surfacing an error: the
// queue must always be able to produce a selection if any file exists.
func (s *Store) readCursor(queueLen int) int {
	data, err := os.ReadFile(filepath.Join(s.dir, CursorFile))
	if err != nil {
		return 0
	}
	idx, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || idx < 0 || idx >= queueLen {
		s.logger.Debug("Cursor value invalid or out of range, resetting to 0",
			zap.String("raw", strings.TrimSpace(string(data))),
			zap.Int("queue_len", queueLen),
		)
		return 0
	}
	return idx
}

func (s *Store) writeCursor(idx int) {
	path := filepath.Join(s.dir, CursorFile)
	if err := os.WriteFile(path, []byte(strconv.Itoa(idx)), 0644); err != nil {
		// A failed write means the next run repeats this slot. Not fatal.
		s.logger.Warn("Failed to persist cursor", zap.String("path", path), zap.Error(err))
	}
}
