package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// MemoryStore is an in-process stand-in for RedisStore, used for single-node runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	hashes map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hashes: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) GetField(_ context.Context, key, field string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.hashes[key][field]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemoryStore) SetField(_ context.Context, key, field string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string][]byte)
		s.hashes[key] = h
	}
	v := make([]byte, len(value))
	copy(v, value)
	h[field] = v
	return nil
}

func (s *MemoryStore) IncrField(_ context.Context, key, field string, by int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string][]byte)
		s.hashes[key] = h
	}
	var n int64
	if raw, ok := h[field]; ok {
		var err error
		n, err = strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("field %s of %s is not an integer", field, key)
		}
	}
	n += by
	h[field] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (s *MemoryStore) DeleteFields(_ context.Context, key string, fields ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		return nil
	}
	for _, f := range fields {
		delete(h, f)
	}
	if len(h) == 0 {
		delete(s.hashes, key)
	}
	return nil
}

func (s *MemoryStore) DeleteRoom(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hashes, key)
	return nil
}

// Len returns the number of rooms held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hashes)
}
