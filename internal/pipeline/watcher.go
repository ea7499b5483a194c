package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fernbridge/codelens/internal/extract"
)

// fileEvent is one debounced filesystem change, collapsed to its final
// disposition (written or removed) before being handed to the indexer.
type fileEvent int

const (
	eventWritten fileEvent = iota
	eventRemoved
)

// eventDebouncer coalesces bursts of fsnotify events per path into one
// flush after the quiet period elapses, the same shape as the teacher's
// watcher debouncer but driven by a single timer instead of a goroutine
// loop, since codelens only needs one pending flush at a time.
type eventDebouncer struct {
	mu       sync.Mutex
	pending  map[string]fileEvent
	debounce time.Duration
	timer    *time.Timer
	flush    func(map[string]fileEvent)
}

func newEventDebouncer(debounce time.Duration, flush func(map[string]fileEvent)) *eventDebouncer {
	return &eventDebouncer{pending: make(map[string]fileEvent), debounce: debounce, flush: flush}
}

func (d *eventDebouncer) add(path string, ev fileEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[path] = ev
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.runFlush)
}

func (d *eventDebouncer) runFlush() {
	d.mu.Lock()
	batch := d.pending
	d.pending = make(map[string]fileEvent)
	d.mu.Unlock()
	if len(batch) > 0 {
		d.flush(batch)
	}
}

// Watch runs until the returned stop func is called, re-indexing files as fsnotify reports them changed or removed, debounced
// by Config.WatchDebounceMS. Only one file root's subtree is watched per
// call; callers watching multiple RepoRoots should call Watch once per root.
func (p *Pipeline) Watch(root string) (stop func() error, err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if matchesAny(defaultExcludes, filepath.ToSlash(rel)) {
			return fs.SkipDir
		}
		return watcher.Add(path)
	}); walkErr != nil {
		watcher.Close()
		return nil, walkErr
	}

	debounceMS := p.Config.WatchDebounceMS
	if debounceMS <= 0 {
		debounceMS = 300
	}
	deb := newEventDebouncer(time.Duration(debounceMS)*time.Millisecond, func(batch map[string]fileEvent) {
		p.applyWatchBatch(batch)
	})

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				p.handleWatchEvent(watcher, deb, event)
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.Log.Warnf("watch error: %v", watchErr)
			case <-done:
				return
			}
		}
	}()

	stop = func() error {
		close(done)
		return watcher.Close()
	}
	return stop, nil
}

func (p *Pipeline) handleWatchEvent(watcher *fsnotify.Watcher, deb *eventDebouncer, event fsnotify.Event) {
	switch {
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		deb.add(event.Name, eventRemoved)
	case event.Op&fsnotify.Create != 0:
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			watcher.Add(event.Name)
			return
		}
		deb.add(event.Name, eventWritten)
	case event.Op&fsnotify.Write != 0:
		deb.add(event.Name, eventWritten)
	}
}

func (p *Pipeline) applyWatchBatch(batch map[string]fileEvent) {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	for path, ev := range batch {
		if _, ok := extract.LanguageForFile(path); !ok {
			continue
		}
		switch ev {
		case eventRemoved:
			if err := p.Indexer.DeleteFile(path); err != nil {
				p.Log.Warnf("watch delete %s: %v", path, err)
			}
		case eventWritten:
			if _, err := p.Indexer.IndexFile(path); err != nil {
				p.Log.Warnf("watch index %s: %v", path, err)
			}
		}
	}
	if p.OnBatch != nil {
		p.OnBatch()
	}
}
