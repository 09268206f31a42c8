package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used in tests and single-instance
// development setups.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem)}
}

func (s *MemoryStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.live(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(item.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = memoryItem{data: data, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) GetDel(ctx context.Context, key string, dest interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.live(key)
	if !ok {
		return false, nil
	}
	delete(s.items, key)
	if err := json.Unmarshal(item.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.items, key)
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// live returns the item at key if it has not expired, dropping it otherwise.
// Caller must hold the lock.
func (s *MemoryStore) live(key string) (memoryItem, bool) {
	item, ok := s.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if time.Now().After(item.expiresAt) {
		delete(s.items, key)
		return memoryItem{}, false
	}
	return item, true
}
