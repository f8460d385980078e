// Package watch reports changes to a fixed set of files. It watches the
// parent directories so files replaced by rename (as most editors save)
// are still seen.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/pcviz/internal/logger"
)

// changeBuffer is the capacity of the Changes channel. Changes beyond it
// are dropped until the consumer catches up.
const changeBuffer = 64

// Watcher posts the path of every watched file that is written, created
// or renamed onto. It never blocks on the consumer.
type Watcher struct {
	fs      *fsnotify.Watcher
	files   map[string]string // cleaned absolute path -> path as given
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup
}

// New starts watching paths.
func New(paths []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fs:      fw,
		files:   make(map[string]string, len(paths)),
		changes: make(chan string, changeBuffer),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.files[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.loop()

	logger.Debug("watching files", zap.Int("files", len(w.files)), zap.Int("dirs", len(dirs)))
	return w, nil
}

// Changes delivers each changed file as the path given to New.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			path, watched := w.files[filepath.Clean(ev.Name)]
			if !watched {
				continue
			}
			select {
			case w.changes <- path:
			default:
				logger.Debug("change dropped, consumer busy", zap.String("path", path))
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

// Drain returns the distinct paths currently queued, in arrival order,
// without blocking.
func Drain(changes <-chan string) []string {
	var out []string
	seen := make(map[string]bool)
	for {
		select {
		case p := <-changes:
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		default:
			return out
		}
	}
}
