package blob

import (
	"context"
	"sync"
)

// InMemory keeps objects in a map for tests and local runs without MinIO.
type InMemory struct {
	mu       sync.RWMutex
	objects  map[string][]byte
	bucketed bool

	// FailPuts makes every Put return ErrPutFailed; tests use it to exercise
	// the archive-failure path.
	FailPuts bool
}

func NewInMemory() *InMemory {
	return &InMemory{objects: make(map[string][]byte)}
}

func (s *InMemory) EnsureBucket(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucketed = true
	return nil
}

func (s *InMemory) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPuts {
		return ErrPutFailed
	}
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *InMemory) URL(key string) string {
	return "memory://" + key
}

// Object returns a stored object and whether it exists.
func (s *InMemory) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

// Keys lists all stored object keys.
func (s *InMemory) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}
