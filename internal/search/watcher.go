package search

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// rootWatcher watches a directory tree and fires a one-shot callback
// on the first change. The index cache arms one per cached root; once
// the callback has fired the entry is gone and the watcher has done
// its job.
type rootWatcher struct {
	watcher  *fsnotify.Watcher
	onChange func()
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	fireOnce sync.Once
}

// newRootWatcher creates and starts a watcher over root and all of its
// subdirectories. fsnotify does not recurse, so every directory is
// registered up front; directories created later trigger the callback
// themselves, which is exactly the invalidation we want.
func newRootWatcher(root string, onChange func()) (*rootWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable subtree just loses coverage, but a root
			// that cannot be walked at all cannot be watched.
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if addErr := watcher.Add(path); addErr != nil {
				return addErr
			}
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	w := &rootWatcher{
		watcher:  watcher,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// loop waits for the first relevant event and fires the callback once.
func (w *rootWatcher) loop() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.fire()
				return
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// A watch error means coverage is no longer guaranteed;
			// treat it like a change.
			w.fire()
			return
		}
	}
}

func (w *rootWatcher) fire() {
	w.fireOnce.Do(func() {
		go w.onChange()
	})
}

// Close stops the watcher. Safe to call from the invalidation
// callback.
func (w *rootWatcher) Close() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		<-w.doneCh
	})
}
