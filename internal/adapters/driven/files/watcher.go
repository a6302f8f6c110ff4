package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// DefaultSettle is how long a file must stop changing before it is reported.
const DefaultSettle = 500 * time.Millisecond

// Watcher reports files dropped into a directory once they stop changing.
// Only the top level of the directory is watched.
type Watcher struct {
	finder *Finder
	settle time.Duration
}

// NewWatcher creates a watcher that reports files accepted by finder.
func NewWatcher(finder *Finder, settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{finder: finder, settle: settle}
}

// Watch starts watching dir. The channel is closed when ctx is cancelled or
// the underlying watcher fails.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(abs); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan string)
	go w.loop(ctx, fw, abs, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, dir string, out chan<- string) {
	defer close(out)
	defer fw.Close()

	pending := make(map[string]*time.Timer)
	ready := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			path, ok := w.handleEvent(dir, event)
			if !ok {
				continue
			}
			if t, exists := pending[path]; exists {
				t.Reset(w.settle)
				continue
			}
			pending[path] = time.AfterFunc(w.settle, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			select {
			case out <- path:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", dir, err)
		}
	}
}

// handleEvent returns the file an event refers to when it is a created or
// written regular, non-hidden file matching the include patterns.
func (w *Watcher) handleEvent(dir string, event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	rel, err := filepath.Rel(dir, event.Name)
	if err != nil || !w.finder.Matches(rel) {
		return "", false
	}
	return event.Name, true
}
