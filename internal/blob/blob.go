package blob

import "context"

// Store is the object-storage port. Notifications and archived originals are
// written through it; the bucket is ensured before every write so a freshly
// provisioned environment works without manual setup.
type Store interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(key string) string
}
