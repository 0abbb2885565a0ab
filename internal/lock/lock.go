package lock

import "context"

// Locker serializes processing attempts for a single document id. Attempts for
// different ids proceed in parallel; two attempts for the same id must never
// interleave their store writes.
type Locker interface {
	// Acquire blocks until the lock for key is held or ctx is done. The
	// returned function releases the lock and must be called exactly once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}
