package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a tuning file when it changes on disk. Parsed updates arrive on
// Updates, coalesced to the newest; parse and watch failures arrive on Errors. The
// simulation drains Updates between ticks.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Updates chan *Tuning
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching path. The containing directory is watched so editors that
// replace the file on save are still seen.
func Watch(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	w := &Watcher{
		path:    abs,
		watcher: fw,
		Updates: make(chan *Tuning, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Updates)
		close(w.Errors)
	})
	return err
}

// Latest returns the most recent pending update without blocking, or nil.
func (w *Watcher) Latest() *Tuning {
	var latest *Tuning
	for {
		select {
		case t, ok := <-w.Updates:
			if !ok {
				return latest
			}
			latest = t
		default:
			return latest
		}
	}
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			t, err := Load(w.path)
			if err != nil {
				w.send(w.Errors, err)
				continue
			}
			w.replace(t)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(w.Errors, err)
		case <-w.closeCh:
			return
		}
	}
}

// replace keeps only the newest update in the buffered channel.
func (w *Watcher) replace(t *Tuning) {
	for {
		select {
		case w.Updates <- t:
			return
		default:
		}
		select {
		case <-w.Updates:
		default:
		}
	}
}

func (w *Watcher) send(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}
