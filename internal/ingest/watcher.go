package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes an intake directory and dispatches every new XML file.
type Watcher struct {
	dir        string
	dispatcher Dispatcher
	log        *log.Logger
}

func NewWatcher(dir string, dispatcher Dispatcher, logger *log.Logger) *Watcher {
	return &Watcher{dir: dir, dispatcher: dispatcher, log: logger}
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create watch dir %s: %w", w.dir, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Printf("watching %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) || !strings.HasSuffix(event.Name, ".xml") {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				continue
			}
			if err := w.dispatcher.Dispatch(ctx, event.Name); err != nil {
				w.log.Printf("dispatch %s: %v", event.Name, err)
				continue
			}
			w.log.Printf("dispatched %s", event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Printf("watch error: %v", err)
		}
	}
}
