package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/open-agent-tools/codenav/internal/debug"
	"github.com/open-agent-tools/codenav/internal/errors"
)

// Watcher re-runs a fresh one-shot overview whenever an eligible file under
// the watched root is written or created. No state carries over between
// events.
type Watcher struct {
	scanner *Scanner
	root    string
	fsw     *fsnotify.Watcher
}

// NewWatcher sets up recursive watches rooted at root, pruning directories
// the scanner's exclude patterns cover.
func (s *Scanner) NewWatcher(root string) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.NewInputError("path", err.Error())
	}
	if !info.IsDir() {
		return nil, errors.NewInputError("path", fmt.Sprintf("%s is not a directory", root))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{scanner: s, root: root, fsw: fsw}
	if err := w.addWatches(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is cancelled, handing each refreshed overview to
// emit. Cancellation is the expected way to stop and is not an error.
func (w *Watcher) Run(ctx context.Context, emit func(FileOverview)) error {
	defer w.fsw.Close()
	debug.LogScan("watching %s\n", w.root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev, emit)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			debug.LogScan("watch error: %v\n", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event, emit func(FileOverview)) {
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	info, err := os.Stat(ev.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		// New subtrees join the watch set; addWatches prunes excluded ones.
		if ev.Op&fsnotify.Create != 0 {
			if err := w.addWatches(ev.Name); err != nil {
				debug.LogScan("watch %s: %v\n", ev.Name, err)
			}
		}
		return
	}
	if _, ok := w.scanner.eligible(relSlash(w.root, ev.Name)); !ok {
		return
	}
	debug.LogScan("refresh %s\n", ev.Name)
	emit(w.scanner.overviewFile(ev.Name))
}

func (w *Watcher) addWatches(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if path != w.root && w.scanner.excludedDir(relSlash(w.root, path)) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}
