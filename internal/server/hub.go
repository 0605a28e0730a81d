package server

import (
	"sync"

	"github.com/roach88/plotstore/internal/store"
)

// Hub fans store state changes out to websocket subscribers.
//
// Notify is installed as the store notifier. It compares against the last
// state it saw and drops updates nothing observable changed in. Slow
// subscribers only ever hold the newest state.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan store.State]struct{}
	last   store.State
	primed bool
}

// NewHub creates a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan store.State]struct{})}
}

// Notify broadcasts st to every subscriber when it differs from the last
// broadcast state.
func (h *Hub) Notify(st store.State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.primed && !st.Changed(h.last) {
		return
	}
	h.last = st
	h.primed = true

	for ch := range h.subs {
		// Replace a stale pending state rather than block.
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

// Subscribe registers a subscriber. The returned cancel func must be
// called to release it.
func (h *Hub) Subscribe() (<-chan store.State, func()) {
	ch := make(chan store.State, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
