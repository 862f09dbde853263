package storage

import (
	"context"
	"sync"
)

// Object is a stored image as kept by MemoryStore.
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryStore is an in-memory ImageStore for local runs and tests.
type MemoryStore struct {
	baseURL string
	objects map[string]Object
	mu      sync.RWMutex
}

// NewMemoryStore creates a MemoryStore whose URLs start with baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: baseURL,
		objects: make(map[string]Object),
	}
}

// Put stores a copy of data under key.
func (s *MemoryStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.objects[key] = Object{Data: buf, ContentType: contentType}
	s.mu.Unlock()
	return s.URL(key), nil
}

// Delete removes key if present.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// URL returns the public address of key.
func (s *MemoryStore) URL(key string) string {
	return joinURL(s.baseURL, key)
}

// Get returns the object stored under key.
func (s *MemoryStore) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}
