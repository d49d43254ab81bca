package guard

// defaultMaxRedirectDepth bounds a chain of consecutive guard-initiated
// redirects. spec.md §1 only guarantees that a single redirect hop skips
// guards on its own re-entrant parse; it says nothing about route A's
// guard redirecting to B whose own guard redirects back to A. The teacher's
// guard_flow.go carries exactly this defense-in-depth bound
// (maxRedirectDepth = 10), kept here as a supplement (§10.7).
const defaultMaxRedirectDepth = 10

// redirectTracker records the route names passed to visit and detects both
// tight cycles (the exact same route name seen twice) and chains longer
// than maxDepth. The engine starts a fresh tracker for every redirect it
// applies (Parse and redirectChecked both reset it), so within the engine a
// tracker sees a single redirect target and its checks do not span
// separate redirects.
type redirectTracker struct {
	visited  map[string]bool
	depth    int
	maxDepth int
}

func newRedirectTracker(maxDepth int) *redirectTracker {
	if maxDepth <= 0 {
		maxDepth = defaultMaxRedirectDepth
	}
	return &redirectTracker{visited: make(map[string]bool), maxDepth: maxDepth}
}

// visit records route as seen, returning an error if it was already
// visited in this chain (circular redirect) or if the chain has grown past
// the configured depth.
func (t *redirectTracker) visit(route string) error {
	t.depth++
	if t.depth > t.maxDepth {
		return &GuardError{
			Code:    ErrCodeMaxRedirectDepth,
			Message: "maximum redirect depth exceeded",
			ToRoute: route,
		}
	}
	if t.visited[route] {
		return &GuardError{
			Code:    ErrCodeCircularRedirect,
			Message: "circular redirect detected",
			ToRoute: route,
		}
	}
	t.visited[route] = true
	return nil
}
