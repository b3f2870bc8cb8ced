package app

import (
	"sync"

	"interview-prep-service/internal/domain"
)

// Hub fans state changes out to subscribers.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan domain.StateChange]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan domain.StateChange]struct{})}
}

// Subscribe returns a channel of changes. The caller must invoke the returned cancel function to avoid leaks.
func (h *Hub) Subscribe() (<-chan domain.StateChange, func()) {
	ch := make(chan domain.StateChange, 16)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish never blocks: a full subscriber loses its oldest pending change.
func (h *Hub) Publish(change domain.StateChange) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- change:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- change
		}
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
