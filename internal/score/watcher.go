package score

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("scorelink.score")

// DefaultDebounce is the reload coalescing window used when WatchDump is
// given a non-positive debounce.
const DefaultDebounce = 250 * time.Millisecond

// DumpWatcher reloads a renderer link dump whenever it changes on disk.
// Rapid rewrites within the debounce window coalesce into one reload. The
// reload callback runs on the watcher's own goroutine; hosts that keep the
// single-threaded core contract must hand the result over to their own
// loop.
type DumpWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onReload func(*MemoryDocument, error)
	timer    *time.Timer
	closed   bool
	closeCh  chan struct{}
	wg       sync.WaitGroup
}

// WatchDump watches the dump file at path and calls onReload with the
// freshly parsed document (or the load error) after each change settles.
func WatchDump(path string, debounce time.Duration, onReload func(*MemoryDocument, error)) (*DumpWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory rather than the file: build tools usually replace
	// the dump by rename, which silently drops a watch held on the file.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &DumpWatcher{
		watcher:  fsw,
		path:     abs,
		debounce: debounce,
		onReload: onReload,
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processLoop()

	log.Infof("watching link dump %s", abs)
	return w, nil
}

// Path returns the absolute path of the watched dump.
func (w *DumpWatcher) Path() string {
	return w.path
}

// Close stops the watcher. Pending debounced reloads are dropped.
func (w *DumpWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// processLoop handles incoming fsnotify events.
func (w *DumpWatcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("dump watcher: %s", err.Error())
		}
	}
}

// scheduleReload arms (or re-arms) the debounce timer.
func (w *DumpWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

// reload parses the dump and delivers it to the callback.
func (w *DumpWatcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	doc, err := LoadDump(w.path)
	if err != nil {
		log.Warningf("dump reload failed: %s", err.Error())
	} else {
		log.Infof("dump reloaded: %s (%d pages)", w.path, doc.PageCount())
	}
	w.onReload(doc, err)
}
