// Package watcher monitors the post-processor output directory for new
// G-code programs and hands each one to the processing pipeline exactly once.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// defaultSettle is the delay between noticing a new file and processing it,
// giving the post processor time to finish writing.
const defaultSettle = 500 * time.Millisecond

// Handler processes one discovered program file.
type Handler func(ctx context.Context, path string)

// Watcher watches a single directory (non-recursive) for newly created
// G-code files. Each path is processed at most once per run; files are
// handled serially in discovery order.
type Watcher struct {
	dir     string
	settle  time.Duration
	handler Handler
	logger  *zap.Logger

	mu        sync.Mutex
	processed map[string]struct{}
}

func New(dir string, settle time.Duration, handler Handler, logger *zap.Logger) *Watcher {
	if settle <= 0 {
		settle = defaultSettle
	}
	return &Watcher{
		dir:       dir,
		settle:    settle,
		handler:   handler,
		logger:    logger,
		processed: make(map[string]struct{}),
	}
}

// ProcessExisting hands every G-code file already present in the watch
// directory to the handler. Used at startup to drain files posted while the
// watcher was down.
func (w *Watcher) ProcessExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read watch directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isGCode(entry.Name()) {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		path := filepath.Join(w.dir, entry.Name())
		if !w.markNew(path) {
			continue
		}
		w.handle(ctx, path)
	}
	return nil
}

// Run blocks until ctx is cancelled, processing create events for G-code
// files. Non-fatal fsnotify errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.logger.Info("watching for new programs", zap.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watch event channel closed")
			}
			if !evt.Has(fsnotify.Create) || !isGCode(evt.Name) {
				continue
			}
			// claim the path immediately so duplicate create events for
			// the same file are suppressed
			if !w.markNew(evt.Name) {
				continue
			}

			// let the post processor finish writing
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.settle):
			}

			w.handle(ctx, evt.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watch error channel closed")
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// markNew claims a path for processing. Returns false when the path has
// already been claimed this run.
func (w *Watcher) markNew(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, seen := w.processed[path]; seen {
		return false
	}
	w.processed[path] = struct{}{}
	return true
}

func (w *Watcher) handle(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		// created then removed before the settle delay elapsed
		w.logger.Debug("file vanished before processing", zap.String("path", path))
		return
	}

	w.handler(ctx, path)
}

// isGCode reports whether the filename carries a recognized G-code extension.
func isGCode(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".nc", ".gcode":
		return true
	}
	return false
}
