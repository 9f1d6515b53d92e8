package hovercard

import "sync"

// Hub is an in-process Notifier that fans a resize notification out to all
// current subscribers. It is the glue between a host event source (browser
// resize event, terminal WindowSizeMsg) and the cards tracking it.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]func())}
}

// Subscribe registers fn and returns its cancel function. Cancel is
// idempotent.
func (h *Hub) Subscribe(fn func()) (cancel func()) {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Notify invokes every current subscriber once, synchronously.
func (h *Hub) Notify() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Subscribers returns the current subscription count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
