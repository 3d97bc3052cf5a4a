package indexer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a project root and re-extracts component files as they
// change.
//
// **Features:**
//   - Debouncing - rapid writes to one file trigger a single extraction
//   - Selective - only the changed file is extracted, through the scanner
//     so the cache and the store stay current
//   - New directories are watched as they appear
//
// **Usage:**
//
//	w, err := NewWatcher(scanner, root, DefaultScanConfig(), DefaultWatchOptions(), handler, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher *fsnotify.Watcher
	scanner *Scanner
	root    string
	config  ScanConfig
	options WatchOptions
	handler ChangeHandler
	logger  *slog.Logger

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher for rootPath. handler receives every
// settled change and may be nil.
func NewWatcher(
	scanner *Scanner,
	rootPath string,
	config ScanConfig,
	options WatchOptions,
	handler ChangeHandler,
	logger *slog.Logger,
) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	root, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if options.DebounceMs <= 0 {
		options.DebounceMs = 200
	}

	return &Watcher{
		watcher:        fsw,
		scanner:        scanner,
		root:           root,
		config:         config,
		options:        options,
		handler:        handler,
		logger:         logger,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start registers the root and its non-excluded subdirectories and begins
// processing events in the background.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.mu.Unlock()

	if err := w.addTree(w.root); err != nil {
		return err
	}

	w.logger.Info("File watcher started", "root", w.root)
	go w.eventLoop()
	return nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.excluded(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops the watcher. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("File watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.excluded(path) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if !w.included(path) {
		return
	}

	w.logger.Debug("File event", "op", event.Op.String(), "file", path)

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.debounce(path, func() { w.refresh(path) })
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.debounce(path, func() { w.remove(path) })
	}
}

// debounce schedules fn after the debounce delay, replacing any pending
// action for the same path.
func (w *Watcher) debounce(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}

	w.debounceTimers[path] = time.AfterFunc(
		time.Duration(w.options.DebounceMs)*time.Millisecond,
		func() {
			w.debounceMu.Lock()
			delete(w.debounceTimers, path)
			w.debounceMu.Unlock()

			select {
			case <-w.stopChan:
				return
			default:
			}
			fn()
		},
	)
}

func (w *Watcher) refresh(path string) {
	w.scanner.Forget(path)

	// an editor may replace the file with a rename, leaving nothing behind
	if _, err := os.Stat(path); err != nil {
		w.remove(path)
		return
	}

	docs, err := w.scanner.Process(path)
	if err != nil {
		w.logger.Warn("Failed to extract changed file", "file", path, "error", err)
		return
	}
	rel := w.relPath(path)
	if docs != nil {
		docs.RelPath = rel
	}
	w.logger.Debug("File re-extracted", "file", rel, "component", docs != nil)
	w.notify(Change{Kind: ChangeUpdated, Path: path, RelPath: rel, Docs: docs})
}

func (w *Watcher) remove(path string) {
	if _, err := os.Stat(path); err == nil {
		// renamed back into place before the timer fired
		w.refresh(path)
		return
	}
	w.scanner.Forget(path)
	rel := w.relPath(path)
	w.logger.Debug("File removed", "file", rel)
	w.notify(Change{Kind: ChangeRemoved, Path: path, RelPath: rel})
}

func (w *Watcher) notify(c Change) {
	if w.handler != nil {
		w.handler(c)
	}
}

func (w *Watcher) relPath(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// excluded reports whether path matches an exclude pattern or an ignore
// pattern.
func (w *Watcher) excluded(path string) bool {
	rel := w.relPath(path)
	return matchesAny(w.config.Exclude, rel) || matchesAny(w.options.IgnorePatterns, rel)
}

// included reports whether path is a file a scan would visit.
func (w *Watcher) included(path string) bool {
	rel := w.relPath(path)
	return len(w.config.Include) == 0 || matchesAny(w.config.Include, rel)
}

// GetStats returns watcher statistics.
func (w *Watcher) GetStats() WatcherStats {
	w.debounceMu.Lock()
	pending := len(w.debounceTimers)
	w.debounceMu.Unlock()

	w.mu.Lock()
	running := !w.stopped
	w.mu.Unlock()

	return WatcherStats{
		PendingChanges: pending,
		IsRunning:      running,
	}
}

// WatcherStats contains watcher statistics.
type WatcherStats struct {
	PendingChanges int
	IsRunning      bool
}
