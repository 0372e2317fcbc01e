package atom

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// FileWatcher watches a file and emits its contents whenever it changes.
//
// The parent directory is watched rather than the file itself, so editors
// and config managers that replace the file by rename are still observed.
type FileWatcher struct {
	path string
}

// NewFileWatcher creates a new FileWatcher for the given file path.
func NewFileWatcher(path string) *FileWatcher {
	return &FileWatcher{path: path}
}

// Watch begins watching the file and returns a channel that emits the file
// contents whenever the file is written or replaced. The current contents
// are emitted immediately.
func (w *FileWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	path, err := filepath.Abs(w.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", w.path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "failed to watch directory of %s", path)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer watcher.Close()

		emit := func() bool {
			data, err := os.ReadFile(path)
			if err != nil {
				return true
			}
			select {
			case out <- data:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !emit() {
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}

var _ Watcher = (*FileWatcher)(nil)
