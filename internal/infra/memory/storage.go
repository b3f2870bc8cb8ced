package memory

import (
	"context"
	"sync"

	"interview-prep-service/internal/domain"
)

// Storage is an in-memory implementation of app.Storage.
type Storage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewStorage() *Storage {
	return &Storage{
		items: make(map[string]string),
	}
}

func (s *Storage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Storage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *Storage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// UnavailableStorage rejects every call, like a browser with storage disabled or over quota.
type UnavailableStorage struct{}

func NewUnavailableStorage() UnavailableStorage {
	return UnavailableStorage{}
}

func (UnavailableStorage) GetItem(context.Context, string) (string, bool, error) {
	return "", false, domain.ErrStorageUnavailable
}

func (UnavailableStorage) SetItem(context.Context, string, string) error {
	return domain.ErrStorageUnavailable
}

func (UnavailableStorage) RemoveItem(context.Context, string) error {
	return domain.ErrStorageUnavailable
}
