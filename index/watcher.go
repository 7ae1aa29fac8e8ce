package index

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	// batchWindow coalesces bursts of filesystem events before recording them.
	batchWindow = 500 * time.Millisecond

	// maxRecent bounds the recency list.
	maxRecent = 32
)

// Watcher tracks recently changed workspace files so the scanner can
// prioritize them when filling its quota.
type Watcher struct {
	root    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	stop    chan struct{}

	mu     sync.Mutex
	recent []string // most recent first
}

// NewWatcher creates a watcher for the workspace root.
func NewWatcher(root string, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		root:   root,
		logger: logger,
		stop:   make(chan struct{}),
	}
}

// Start begins watching the workspace directory tree.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fsw

	err = filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			rel, _ := filepath.Rel(w.root, path)
			if shouldSkipDirectory(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return err
	}

	go w.watchLoop()
	return nil
}

// Stop ends watching.
func (w *Watcher) Stop() {
	if w.watcher != nil {
		close(w.stop)
		w.watcher.Close()
	}
}

// Recent returns changed file paths, most recent first.
func (w *Watcher) Recent() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.recent))
	copy(out, w.recent)
	return out
}

// watchLoop batches events on a settle timer before recording them.
func (w *Watcher) watchLoop() {
	timer := time.NewTimer(batchWindow)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			rel, err := filepath.Rel(w.root, event.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if !isSourceFile(rel) {
				continue
			}

			pending[rel] = true
			timer.Stop()
			timer.Reset(batchWindow)

		case <-timer.C:
			for rel := range pending {
				w.markRecent(rel)
			}
			pending = make(map[string]bool)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-w.stop:
			return
		}
	}
}

// markRecent moves rel to the front of the recency list.
func (w *Watcher) markRecent(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	filtered := make([]string, 0, len(w.recent)+1)
	filtered = append(filtered, rel)
	for _, r := range w.recent {
		if r != rel {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) > maxRecent {
		filtered = filtered[:maxRecent]
	}
	w.recent = filtered
}
