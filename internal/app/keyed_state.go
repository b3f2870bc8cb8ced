package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// KeyedState maps question ids to entries. It hydrates from storage once, on first
// access, and writes the whole mapping back after every mutation.
type KeyedState[T any] struct {
	key      string
	registry *Registry

	once    sync.Once
	mu      sync.RWMutex
	order   []string
	entries map[string]T
}

// Entry is one id/value pair in insertion order.
type Entry[T any] struct {
	ID    string
	Value T
}

func newKeyedState[T any](r *Registry, key string) *KeyedState[T] {
	return &KeyedState[T]{
		key:      key,
		registry: r,
		entries:  make(map[string]T),
	}
}

func (s *KeyedState[T]) load() {
	s.once.Do(func() {
		raw, ok := s.registry.readRaw(s.key)
		if !ok {
			return
		}
		order, entries, err := decodeOrdered[T](raw)
		if err != nil {
			s.registry.log.WithField("store", s.key).WithError(err).Warn("discarding malformed persisted state")
			return
		}
		s.mu.Lock()
		s.order, s.entries = order, entries
		s.mu.Unlock()
	})
}

// Get returns the entry for id without creating one.
func (s *KeyedState[T]) Get(id string) (T, bool) {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[id]
	return v, ok
}

// Len returns the number of stored entries.
func (s *KeyedState[T]) Len() int {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Entries returns a copy of every entry in insertion order.
func (s *KeyedState[T]) Entries() []Entry[T] {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry[T], 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Entry[T]{ID: id, Value: s.entries[id]})
	}
	return out
}

// Update replaces the entry for id with fn(current, exists), then persists and publishes.
func (s *KeyedState[T]) Update(id, action string, fn func(current T, exists bool) T) T {
	s.load()
	s.mu.Lock()
	current, exists := s.entries[id]
	next := fn(current, exists)
	if !exists {
		s.order = append(s.order, id)
	}
	s.entries[id] = next
	s.persistLocked()
	s.mu.Unlock()

	s.registry.publish(s.key, id, action)
	return next
}

// Modify changes an existing entry in place; absent ids are left alone. It reports whether id existed.
func (s *KeyedState[T]) Modify(id, action string, fn func(current T) T) bool {
	s.load()
	s.mu.Lock()
	current, exists := s.entries[id]
	if !exists {
		s.mu.Unlock()
		return false
	}
	s.entries[id] = fn(current)
	s.persistLocked()
	s.mu.Unlock()

	s.registry.publish(s.key, id, action)
	return true
}

// Delete removes the entry for id. It reports whether an entry was removed.
func (s *KeyedState[T]) Delete(id, action string) bool {
	s.load()
	s.mu.Lock()
	if _, ok := s.entries[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.entries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.persistLocked()
	s.mu.Unlock()

	s.registry.publish(s.key, id, action)
	return true
}

// Clear removes every entry.
func (s *KeyedState[T]) Clear(action string) {
	s.load()
	s.mu.Lock()
	s.order = nil
	s.entries = make(map[string]T)
	s.persistLocked()
	s.mu.Unlock()

	s.registry.publish(s.key, "", action)
}

func (s *KeyedState[T]) persistLocked() {
	payload, err := encodeOrdered(s.order, s.entries)
	if err != nil {
		s.registry.log.WithField("store", s.key).WithError(err).Warn("encode state failed")
		return
	}
	s.registry.writeRaw(s.key, payload)
}

// encodeOrdered writes a JSON object whose keys follow order, the way a browser keeps object keys.
func encodeOrdered[T any](order []string, entries map[string]T) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return "", err
		}
		v, err := json.Marshal(entries[id])
		if err != nil {
			return "", err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// decodeOrdered parses a JSON object keeping key order. A JSON null decodes as empty.
func decodeOrdered[T any](raw string) ([]string, map[string]T, error) {
	entries := make(map[string]T)
	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if tok == nil {
		return nil, entries, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		id, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var v T
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("decode %q: %w", id, err)
		}
		if _, dup := entries[id]; !dup {
			order = append(order, id)
		}
		entries[id] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return order, entries, nil
}

// ValueState is a single persisted JSON value, such as the quiz mode preference.
type ValueState[T any] struct {
	key      string
	registry *Registry
	def      T
	sanitize func(T) T

	once  sync.Once
	mu    sync.RWMutex
	value T
}

func newValueState[T any](r *Registry, key string, def T, sanitize func(T) T) *ValueState[T] {
	if sanitize == nil {
		sanitize = func(v T) T { return v }
	}
	return &ValueState[T]{key: key, registry: r, def: def, sanitize: sanitize, value: def}
}

func (s *ValueState[T]) load() {
	s.once.Do(func() {
		raw, ok := s.registry.readRaw(s.key)
		if !ok {
			return
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			s.registry.log.WithField("store", s.key).WithError(err).Warn("discarding malformed persisted value")
			return
		}
		s.mu.Lock()
		s.value = s.sanitize(v)
		s.mu.Unlock()
	})
}

// Get returns the current value.
func (s *ValueState[T]) Get() T {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores v, persists it and publishes a change.
func (s *ValueState[T]) Set(v T, action string) {
	s.load()
	s.mu.Lock()
	s.value = s.sanitize(v)
	payload, err := json.Marshal(s.value)
	if err == nil {
		s.registry.writeRaw(s.key, string(payload))
	}
	s.mu.Unlock()

	if err != nil {
		s.registry.log.WithField("store", s.key).WithError(err).Warn("encode value failed")
	}
	s.registry.publish(s.key, "", action)
}
