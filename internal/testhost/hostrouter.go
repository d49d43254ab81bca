package testhost

import (
	"sync"

	"github.com/wridgeu/ui5-lib-guard-router-sub000/guard"
	"github.com/wridgeu/ui5-lib-guard-router-sub000/internal/routepattern"
)

// HostRouter is an in-memory guard.HostRouter backed by a
// routepattern.Matcher. It records every committed hash for assertions and
// drives navigation by writing straight to the paired HashSource, mirroring
// how a real SPA router (e.g. the teacher's own Router) both resolves hashes
// and owns the mechanism that changes them.
type HostRouter struct {
	mu      sync.Mutex
	matcher *routepattern.Matcher
	hash    *HashSource

	committed []string
	closed    bool
}

// NewHostRouter creates a HostRouter that resolves against routes and
// writes navigations to hash.
func NewHostRouter(hash *HashSource, routes *routepattern.Matcher) *HostRouter {
	return &HostRouter{matcher: routes, hash: hash}
}

func (h *HostRouter) Resolve(hash string) (routeName string, args map[string]any, matched bool) {
	m, err := h.matcher.Resolve(hash)
	if err != nil {
		return "", nil, false
	}
	args = make(map[string]any, len(m.Params))
	for k, v := range m.Params {
		args[k] = v
	}
	return m.Name, args, true
}

func (h *HostRouter) Navigate(target guard.NavigationTarget, replace bool) error {
	path, err := h.matcher.Expand(target.Route, target.Params)
	if err != nil {
		return err
	}
	if replace {
		h.hash.ReplaceHash(path)
	} else {
		h.hash.SetHash(path)
	}
	return nil
}

func (h *HostRouter) ParseCommitted(hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.committed = append(h.committed, hash)
}

func (h *HostRouter) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

// Committed returns every hash ParseCommitted has observed, in order.
func (h *HostRouter) Committed() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.committed))
	copy(out, h.committed)
	return out
}

// Closed reports whether Close has been called.
func (h *HostRouter) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
