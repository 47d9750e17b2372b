package scan

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is invoked after the debounce window with the changed
// (written or created) and removed matching files, as absolute paths.
type ChangeHandler func(changed, removed []string)

// Watcher watches a project tree and reports batches of relevant file
// changes after a debounce window.
type Watcher struct {
	rootDir   string
	discovery *Discovery
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	handler   ChangeHandler
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  sync.Once
}

// NewWatcher creates a file watcher over rootDir. Only files the discovery
// matches reach the handler.
func NewWatcher(rootDir string, discovery *Discovery, debounce time.Duration, handler ChangeHandler) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		rootDir:   rootDir,
		discovery: discovery,
		watcher:   fw,
		debounce:  debounce,
		handler:   handler,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(rootDir); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx)
}

// Stop stops the file watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.watcher.Close()
	})
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time
	changed := make(map[string]bool)
	removed := make(map[string]bool)

	flush := func() {
		if len(changed) == 0 && len(removed) == 0 {
			return
		}
		var changedPaths, removedPaths []string
		for p := range changed {
			changedPaths = append(changedPaths, p)
		}
		for p := range removed {
			removedPaths = append(removedPaths, p)
		}
		changed = make(map[string]bool)
		removed = make(map[string]bool)
		w.handler(changedPaths, removedPaths)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// New directories join the watch before their files settle.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectoriesRecursively(event.Name); err != nil {
						log.Printf("watcher: failed to add %s: %v", event.Name, err)
					}
					continue
				}
			}

			relPath, err := filepath.Rel(w.rootDir, event.Name)
			if err != nil || !w.discovery.Matches(filepath.ToSlash(relPath)) {
				continue
			}

			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				delete(removed, event.Name)
				changed[event.Name] = true
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(changed, event.Name)
				removed[event.Name] = true
			default:
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher: %v", err)
		}
	}
}

func (w *Watcher) addDirectoriesRecursively(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		relPath, rerr := filepath.Rel(w.rootDir, path)
		if rerr != nil {
			return rerr
		}
		relPath = filepath.ToSlash(relPath)
		if relPath != "." && w.discovery.ignoredDir(relPath) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
