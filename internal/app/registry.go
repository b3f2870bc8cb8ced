package app

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"interview-prep-service/internal/domain"
)

// Registry is the application context for client state: it owns exactly one state
// instance per storage key, so every consumer of a key observes the same entries.
type Registry struct {
	storage Storage
	log     logrus.FieldLogger
	now     func() time.Time
	rnd     *rand.Rand
	hub     *Hub

	mu     sync.Mutex
	shared map[string]any
}

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithClock replaces time.Now; tests use it for deterministic timestamps.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// WithRandSource seeds quiz shuffling.
func WithRandSource(src rand.Source) RegistryOption {
	return func(r *Registry) { r.rnd = rand.New(src) }
}

// WithLogger sets the logger used for swallowed persistence failures.
func WithLogger(log logrus.FieldLogger) RegistryOption {
	return func(r *Registry) { r.log = log }
}

// NewRegistry builds a registry over storage; storage may be nil for memory-only state.
func NewRegistry(storage Storage, opts ...RegistryOption) *Registry {
	r := &Registry{
		storage: storage,
		now:     time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		hub:     NewHub(),
		shared:  make(map[string]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		r.log = silent
	}
	return r
}

// Subscribe streams every state change published through this registry.
func (r *Registry) Subscribe() (<-chan domain.StateChange, func()) {
	return r.hub.Subscribe()
}

func (r *Registry) publish(store, questionID, action string) {
	r.hub.Publish(domain.StateChange{
		Store:      store,
		QuestionID: questionID,
		Action:     action,
		At:         domain.Millis(r.now()),
	})
}

// sharedInstance returns the instance registered under key, creating it once.
func (r *Registry) sharedInstance(key string, create func() any) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.shared[key]; ok {
		return v
	}
	v := create()
	r.shared[key] = v
	return v
}

// readRaw returns the stored payload or ok=false. Storage failures degrade to "nothing stored".
func (r *Registry) readRaw(key string) (string, bool) {
	if r.storage == nil {
		return "", false
	}
	raw, ok, err := r.storage.GetItem(context.Background(), key)
	if err != nil {
		r.log.WithField("store", key).WithError(err).Warn("state storage read failed, starting empty")
		return "", false
	}
	return raw, ok
}

// writeRaw persists payload; failures are logged and swallowed, memory stays authoritative.
func (r *Registry) writeRaw(key, payload string) {
	if r.storage == nil {
		return
	}
	if err := r.storage.SetItem(context.Background(), key, payload); err != nil {
		r.log.WithField("store", key).WithError(err).Warn("state storage write failed, keeping in-memory state")
	}
}

// Keyed returns the shared keyed state for key. Requesting one key with two entry types is a programming error.
func Keyed[T any](r *Registry, key string) *KeyedState[T] {
	v := r.sharedInstance(key, func() any { return newKeyedState[T](r, key) })
	state, ok := v.(*KeyedState[T])
	if !ok {
		panic(fmt.Sprintf("state %q registered with a different entry type", key))
	}
	return state
}

// Value returns the shared single-value state for key.
func Value[T any](r *Registry, key string, def T, sanitize func(T) T) *ValueState[T] {
	v := r.sharedInstance(key, func() any { return newValueState(r, key, def, sanitize) })
	state, ok := v.(*ValueState[T])
	if !ok {
		panic(fmt.Sprintf("state %q registered with a different value type", key))
	}
	return state
}
