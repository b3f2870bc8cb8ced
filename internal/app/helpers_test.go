package app

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

type mapStorage struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

func newMapStorage() *mapStorage {
	return &mapStorage{values: make(map[string]string)}
}

func (s *mapStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *mapStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

func (s *mapStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *mapStorage) raw(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

var errDown = errors.New("storage down")

type failingStorage struct{}

func (failingStorage) GetItem(context.Context, string) (string, bool, error) {
	return "", false, errDown
}

func (failingStorage) SetItem(context.Context, string, string) error { return errDown }

func (failingStorage) RemoveItem(context.Context, string) error { return errDown }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(ms int64) *fakeClock {
	return &fakeClock{now: time.UnixMilli(ms)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestRegistry(storage Storage, clock *fakeClock) *Registry {
	return NewRegistry(storage, WithClock(clock.Now), WithRandSource(rand.NewSource(1)))
}
