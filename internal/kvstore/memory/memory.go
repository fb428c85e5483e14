// Package memory provides an in-process kvstore.Store backed by a mutex-guarded
// map. It is the test double for every service test and the backend for
// STORE_BACKEND=memory demo mode. Versioned writes are atomic under the mutex,
// so it is also the reference implementation for optimistic-concurrency tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"stoktakip/internal/kvstore"
)

type Store struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailNextSet, when non-nil, is returned by the next plain Set call and
	// then cleared. Tests use it to fail a document write mid-sequence while
	// versioned writes keep succeeding.
	FailNextSet error
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, kvstore.ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNextSet != nil {
		err := s.FailNextSet
		s.FailNextSet = nil
		return err
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) SetVersioned(_ context.Context, key string, value []byte, expected int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.data[key]
	if !ok {
		if expected != 0 {
			return kvstore.ErrVersionConflict
		}
	} else {
		ver, err := kvstore.DocVersion(current)
		if err != nil {
			return err
		}
		if ver != expected {
			return kvstore.ErrVersionConflict
		}
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Store) Scan(_ context.Context, prefix string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out [][]byte
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, append([]byte(nil), v...))
		}
	}
	return out, nil
}

// Len reports the number of stored keys (test helper).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ kvstore.Store = (*Store)(nil)
