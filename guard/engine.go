// Package guard implements a navigation guard engine for hash-based SPA
// routing: interception, ordered leave/enter guard pipelines, concurrency
// control via a generation counter and cancellation tokens, and a result
// applier that commits, blocks, or redirects a navigation.
//
// The engine wraps an externally supplied HashSource (owns the URL
// fragment) and HostRouter (matches hashes to routes and renders views);
// neither is implemented here — see internal/testhost for a bundled test
// double of both.
package guard

import (
	"sync"
	"time"

	"github.com/wridgeu/ui5-lib-guard-router-sub000/internal/obslog"
	"github.com/wridgeu/ui5-lib-guard-router-sub000/internal/obsmetrics"
)

// Engine is one navigation guard pipeline bound to a single HashSource and
// HostRouter pair. There is no process-wide singleton: every dependency
// (reporter, metrics, clock) is injected via Option, so tests never share
// a reporter or recorder, even though the teacher's own observability
// package exposes a package-level ErrorReporter singleton (obslog has no
// such singleton).
type Engine struct {
	mu sync.Mutex

	hashSource HashSource
	hostRouter HostRouter
	reg        *registry

	// currentHash is nil until the first commit ("unset" in spec terms):
	// a pointer, rather than a magic string, is the typed marker the spec
	// calls for — the zero value (nil) can never collide with a real
	// hash.
	currentHash *string
	currentRoute string

	// pendingHash is non-nil exactly while a pipeline run is in flight
	// ("none" in spec terms maps to nil here).
	pendingHash *string

	redirecting       bool
	suppressNextParse bool

	generation      uint64
	cancelToken     *CancelToken
	redirectTracker *redirectTracker

	reporter         obslog.ErrorReporter
	metrics          obsmetrics.Recorder
	breadcrumbs      *obslog.Ring
	maxRedirectDepth int
	now              func() time.Time

	unsubscribe func()
	closed      bool
}

// NewEngine constructs an Engine bound to hs and hr and subscribes to hash
// changes immediately. Guards may be registered before or after
// construction returns.
func NewEngine(hs HashSource, hr HostRouter, opts ...Option) *Engine {
	e := &Engine{
		hashSource:       hs,
		hostRouter:       hr,
		reg:              newRegistry(),
		reporter:         obslog.NewConsoleReporter(false),
		metrics:          obsmetrics.NoopRecorder{},
		breadcrumbs:      obslog.NewRing(),
		maxRedirectDepth: defaultMaxRedirectDepth,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.unsubscribe = hs.OnHashChanged(e.Parse)
	return e
}

// AddEnterGuard registers a global enter guard, executed for every
// navigation ahead of any route-specific enter guard.
func (e *Engine) AddEnterGuard(fn EnterGuard) GuardHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reg.addGlobalEnter(fn)
}

// RemoveEnterGuard removes a previously registered global enter guard.
func (e *Engine) RemoveEnterGuard(h GuardHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reg.removeGlobalEnter(h)
}

// RouteGuardConfig bundles the optional enter/leave guards AddRouteGuard
// accepts, mirroring the teacher's { beforeEnter?, beforeLeave? } config
// object.
type RouteGuardConfig struct {
	BeforeEnter EnterGuard
	BeforeLeave LeaveGuard
}

// AddRouteGuard registers BeforeEnter and/or BeforeLeave for route,
// delegating to AddRouteEnterGuard / AddLeaveGuard for whichever field is
// non-nil. If neither is set, it logs an informational message and
// registers nothing, per spec.md §4.1.
func (e *Engine) AddRouteGuard(route string, cfg RouteGuardConfig) (enter, leave GuardHandle) {
	if cfg.BeforeEnter == nil && cfg.BeforeLeave == nil {
		e.reporter.ReportDebug("AddRouteGuard called with neither BeforeEnter nor BeforeLeave set", &obslog.ErrorContext{
			Phase: "registry", ToRoute: route, Timestamp: e.now(),
		})
		return 0, 0
	}
	if cfg.BeforeEnter != nil {
		enter = e.AddRouteEnterGuard(route, cfg.BeforeEnter)
	}
	if cfg.BeforeLeave != nil {
		leave = e.AddLeaveGuard(route, cfg.BeforeLeave)
	}
	return enter, leave
}

// RemoveRouteGuard removes the handles previously returned by
// AddRouteGuard. A zero handle is ignored.
func (e *Engine) RemoveRouteGuard(route string, enter, leave GuardHandle) {
	if enter != 0 {
		e.RemoveRouteEnterGuard(route, enter)
	}
	if leave != 0 {
		e.RemoveLeaveGuard(route, leave)
	}
}

// AddRouteEnterGuard registers an enter guard that runs only when
// navigating into route, after any global enter guards.
func (e *Engine) AddRouteEnterGuard(route string, fn EnterGuard) GuardHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reg.addRouteEnter(route, fn)
}

// RemoveRouteEnterGuard removes a previously registered route enter guard.
func (e *Engine) RemoveRouteEnterGuard(route string, h GuardHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reg.removeRouteEnter(route, h)
}

// AddLeaveGuard registers a leave guard that runs only when navigating away
// from route.
func (e *Engine) AddLeaveGuard(route string, fn LeaveGuard) GuardHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reg.addLeave(route, fn)
}

// RemoveLeaveGuard removes a previously registered leave guard.
func (e *Engine) RemoveLeaveGuard(route string, h GuardHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reg.removeLeave(route, h)
}

// CurrentRoute returns the last committed route name, "" before any
// commit.
func (e *Engine) CurrentRoute() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentRoute
}

// CurrentHash returns the last committed hash, "" before any commit.
func (e *Engine) CurrentHash() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.currentHash == nil {
		return ""
	}
	return *e.currentHash
}

// Close tears down the engine: it empties every guard container, advances
// generation past any in-flight attempt, aborts the current cancel token,
// unsubscribes from the HashSource, and closes the HostRouter.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.reg.clear()
	e.generation++
	if e.cancelToken != nil {
		e.cancelToken.Abort()
		e.cancelToken = nil
	}
	e.pendingHash = nil
	unsubscribe := e.unsubscribe
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	e.hostRouter.Close()
}
