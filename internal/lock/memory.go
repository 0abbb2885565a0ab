package lock

import (
	"context"
	"sync"
)

// InMemory serializes per-key within a single process. Tests and single-worker
// deployments use it in place of the Redis lease.
type InMemory struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{locks: make(map[string]chan struct{})}
}

func (l *InMemory) Acquire(ctx context.Context, key string) (func(), error) {
	for {
		l.mu.Lock()
		ch, held := l.locks[key]
		if !held {
			l.locks[key] = make(chan struct{})
			l.mu.Unlock()
			return func() {
				l.mu.Lock()
				ch := l.locks[key]
				delete(l.locks, key)
				l.mu.Unlock()
				close(ch)
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ch:
		}
	}
}
