// Package memory provides in-memory persistence adapters
package memory

import (
	"context"
	"sync"

	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
)

// KeyValueStore implements outbound.KeyValueStore on a guarded map.
// Contents are lost on restart.
type KeyValueStore struct {
	data  map[string]string
	mutex sync.RWMutex
}

// NewKeyValueStore creates a new in-memory key/value store
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{data: make(map[string]string)}
}

var _ outbound.KeyValueStore = (*KeyValueStore)(nil)

// Get retrieves a value
func (s *KeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.data[key]
	return value, ok, nil
}

// Set stores a value, replacing any previous one
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = value
	return nil
}

// Remove deletes a key; removing a missing key is not an error
func (s *KeyValueStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return nil
}

// Len returns the number of stored keys
func (s *KeyValueStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}
