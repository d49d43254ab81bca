// Package testhost bundles in-memory HashSource and HostRouter test doubles
// for guard.Engine. Both interfaces are explicit external collaborators the
// engine never implements itself (spec.md §1 Non-goals); this package exists
// solely so the engine's own tests can drive a real pipeline end to end
// without a browser or a full routing framework behind it.
package testhost

import (
	"sync"

	"github.com/wridgeu/ui5-lib-guard-router-sub000/guard"
)

// HashSource is an in-memory guard.HashSource: it holds the "URL fragment"
// as a plain string and notifies subscribers synchronously, matching the
// contract guard.HashSource documents (ReplaceHash/SetHash must not defer
// notification to a later tick).
type HashSource struct {
	mu        sync.Mutex
	hash      string
	listeners map[int]func(string)
	nextID    int
}

// NewHashSource creates a HashSource starting at hash.
func NewHashSource(hash string) *HashSource {
	return &HashSource{hash: hash, listeners: make(map[int]func(string))}
}

func (h *HashSource) CurrentHash() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hash
}

func (h *HashSource) SetHash(newHash string) {
	h.write(newHash)
}

func (h *HashSource) ReplaceHash(newHash string, _ ...guard.Direction) {
	h.write(newHash)
}

func (h *HashSource) write(newHash string) {
	h.mu.Lock()
	if h.hash == newHash {
		h.mu.Unlock()
		return
	}
	h.hash = newHash
	fns := make([]func(string), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(newHash)
	}
}

func (h *HashSource) OnHashChanged(fn func(newHash string)) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}
