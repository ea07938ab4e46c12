// Package watch monitors the inbox folder and hands settled files to a
// handler callback.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/franz/sfo/internal/util"
)

// ignorePatterns are partial downloads and editor droppings that must never
// be organized.
var ignorePatterns = []string{
	"*.tmp", "*.part", "*.partial", "*.crdownload", "*.download", "*.swp", "~*",
}

// Handler processes one settled file.
type Handler func(path string)

// Watcher monitors a single folder for new files. Events are debounced
// per file so a file still being written settles before the handler runs.
type Watcher struct {
	folder   string
	debounce time.Duration
	handler  Handler

	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup

	mu       sync.Mutex
	pending  map[string]*time.Timer
	inflight sync.WaitGroup
	running  bool
}

// New creates a watcher for folder. Interval is the settle delay applied to
// each file after its last event.
func New(folder string, interval time.Duration, handler Handler) *Watcher {
	return &Watcher{
		folder:   folder,
		debounce: interval,
		handler:  handler,
		pending:  make(map[string]*time.Timer),
	}
}

// Start begins watching. It returns once the event loop is running.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(w.folder)
	if err != nil {
		fsw.Close()
		return err
	}
	if err := fsw.Add(abs); err != nil {
		fsw.Close()
		return err
	}

	w.fsWatcher = fsw
	w.done = make(chan struct{})

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop()

	util.InfoLog("Watching %s", abs)
	return nil
}

// Stop shuts the watcher down: pending debounce timers are cancelled, a
// handler already running is allowed to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	close(w.done)
	w.wg.Wait()
	w.inflight.Wait()
	w.fsWatcher.Close()
}

// IsRunning reports whether the event loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				w.schedule(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			util.WarnLog("Watcher error: %v", err)
		}
	}
}

// schedule (re)arms the debounce timer for a path. Every new event for the
// same file pushes the handler further out.
func (w *Watcher) schedule(path string) {
	if shouldIgnore(path) {
		util.DebugLog("Ignoring %s", filepath.Base(path))
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}

	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		if !w.running {
			w.mu.Unlock()
			return
		}
		w.inflight.Add(1)
		w.mu.Unlock()
		defer w.inflight.Done()

		if w.handler != nil {
			w.handler(path)
		}
	})
}

// shouldIgnore filters temporary and hidden files.
func shouldIgnore(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range ignorePatterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
