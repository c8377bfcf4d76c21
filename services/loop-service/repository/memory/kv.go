// Package memory keeps documents in process memory, for tests and demos
package memory

import (
	"context"
	"sync"

	"loop/services/loop-service/domain/repository"
)

// KeyValue is a map guarded by a mutex
type KeyValue struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewKeyValueRepository() *KeyValue {
	return &KeyValue{entries: make(map[string]string)}
}

var _ repository.KeyValue = (*KeyValue)(nil)

func (m *KeyValue) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	return value, ok, nil
}

func (m *KeyValue) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *KeyValue) SetIfAbsent(_ context.Context, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.entries[key] = value
	return true, nil
}

func (m *KeyValue) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
