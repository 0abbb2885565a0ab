package ingest

import "context"

// Task is one "process this file" request. The payload stays a path, not
// file contents: the drop directory is shared between watcher and workers.
type Task struct {
	Path string `json:"path"`
}

// Dispatcher hands processing requests to the workers, fire-and-forget.
// Delivery is at-least-once; processing is idempotent per document id.
type Dispatcher interface {
	Dispatch(ctx context.Context, path string) error
}

// InMemory is a channel-backed dispatcher for tests and single-process runs.
type InMemory struct {
	tasks chan Task
}

func NewInMemory(buffer int) *InMemory {
	return &InMemory{tasks: make(chan Task, buffer)}
}

func (d *InMemory) Dispatch(ctx context.Context, path string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case d.tasks <- Task{Path: path}:
		return nil
	}
}

// Tasks exposes the dispatched queue for a consuming loop.
func (d *InMemory) Tasks() <-chan Task {
	return d.tasks
}
