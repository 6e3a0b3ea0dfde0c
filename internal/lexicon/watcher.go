package lexicon

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"prepscore/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a lexicon file into a Store when it changes on disk
type Watcher struct {
	mu sync.Mutex

	path        string
	store       *Store
	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func(version string, err error)
	logger   *errors.Logger

	running bool
}

// NewWatcher creates a watcher for path. onReload may be nil; it is called
// after every reload attempt with the new version or the failure.
func NewWatcher(path string, store *Store, debounceDelay time.Duration, onReload func(string, error), logger *errors.Logger) *Watcher {
	if debounceDelay == 0 {
		debounceDelay = 500 * time.Millisecond
	}
	return &Watcher{
		path:          path,
		store:         store,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}
}

// Start begins watching the lexicon file
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("lexicon watcher is already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsWatcher = fsWatcher

	if stat, err := os.Stat(w.path); err == nil {
		w.lastModTime = stat.ModTime()
	}

	// Watch the directory so editors that write via rename are caught too
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		if closeErr := w.fsWatcher.Close(); closeErr != nil && w.logger != nil {
			w.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.running = true
	go w.watchLoop()

	if w.logger != nil {
		w.logger.Info("Lexicon file watcher started",
			"file", w.path,
			"debounce_delay", w.debounceDelay)
	}
	return nil
}

// Stop stops watching
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false

	if err := w.fsWatcher.Close(); err != nil {
		if w.logger != nil {
			w.logger.LogError(err, "Failed to close file system watcher")
		}
		return err
	}

	if w.logger != nil {
		w.logger.Info("Lexicon file watcher stopped")
	}
	return nil
}

// IsRunning returns whether the watcher is active
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "Lexicon watcher error")
			}

		case <-w.reloadChan:
			if w.hasFileChanged() {
				w.Reload()
			}

		case <-w.stopChan:
			return
		}
	}
}

// Reload loads the file and swaps it in. An invalid file leaves the
// previous snapshot active.
func (w *Watcher) Reload() {
	lex, err := LoadFile(w.path)
	if err != nil {
		if w.logger != nil {
			w.logger.LogError(err, "Lexicon reload failed, keeping previous version",
				"file", w.path)
		}
		if w.onReload != nil {
			w.onReload("", err)
		}
		return
	}

	previous := w.store.Swap(lex)
	if w.logger != nil {
		prevVersion := ""
		if previous != nil {
			prevVersion = previous.Version
		}
		w.logger.Info("Lexicon reloaded",
			"file", w.path,
			"previous_version", prevVersion,
			"version", lex.Version)
	}
	if w.onReload != nil {
		w.onReload(lex.Version, nil)
	}
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) &&
		filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) hasFileChanged() bool {
	stat, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if stat.ModTime().After(w.lastModTime) {
		w.lastModTime = stat.ModTime()
		return true
	}
	return false
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}
