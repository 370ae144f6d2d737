package cdn

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-blog-server/internal/errors"
)

var _ ObjectStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory ObjectStore for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte // bucket + "/" + name -> content
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(bucket, name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+name] = append([]byte(nil), data...)
}

func (s *MemoryStore) Get(_ context.Context, bucket, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[bucket+"/"+name]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}
