package guard

import "github.com/wridgeu/ui5-lib-guard-router-sub000/internal/obslog"

// commitBypass applies the hash the redirecting re-entrant parse carries,
// without the generation gate: spec.md §4.2 step 2 treats a parse observed
// while e.redirecting is set as the trusted continuation of a redirect this
// same engine just issued, not a competing navigation to arbitrate.
func (e *Engine) commitBypass(newHash string) {
	toRoute, _, matched := e.hostRouter.Resolve(newHash)
	if !matched {
		toRoute = ""
	}

	e.mu.Lock()
	hashCopy := newHash
	e.currentHash = &hashCopy
	e.currentRoute = toRoute
	e.pendingHash = nil
	e.mu.Unlock()

	e.metrics.IncCommit(toRoute)
	e.breadcrumbs.Record("commit", "redirect re-entry committed", map[string]interface{}{"to_route": toRoute, "hash": newHash})
	e.hostRouter.ParseCommitted(newHash)
}

// commitChecked applies an Allow result, discarding it silently if gen no
// longer matches the engine's current generation (a later navigation
// superseded this one while guards were still running).
func (e *Engine) commitChecked(gen uint64, newHash, toRoute string) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		e.reportStaleDiscard(gen, toRoute)
		return
	}
	hashCopy := newHash
	e.currentHash = &hashCopy
	e.currentRoute = toRoute
	e.pendingHash = nil
	e.mu.Unlock()

	e.metrics.IncCommit(toRoute)
	e.breadcrumbs.Record("commit", "navigation committed", map[string]interface{}{"to_route": toRoute, "hash": newHash, "generation": gen})
	e.hostRouter.ParseCommitted(newHash)
}

// blockChecked applies a Block result: the pending hash is abandoned and the
// URL is restored to the last committed hash.
func (e *Engine) blockChecked(gen uint64, fromRoute, toRoute string) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		e.reportStaleDiscard(gen, toRoute)
		return
	}
	e.pendingHash = nil
	e.mu.Unlock()

	e.metrics.IncBlock(toRoute)
	e.breadcrumbs.Record("block", "navigation blocked", map[string]interface{}{"from_route": fromRoute, "to_route": toRoute, "generation": gen})
	e.restoreHash()
}

// redirectChecked applies a Redirect result: the originating navigation is
// abandoned, the chain is checked against redirectTracker for cycles or
// excessive depth, and the HostRouter is asked to navigate to the new
// target in place of the current history entry.
func (e *Engine) redirectChecked(gen uint64, fromRoute, toRoute string, target RedirectTarget) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		e.reportStaleDiscard(gen, toRoute)
		return
	}
	if e.redirectTracker == nil {
		e.redirectTracker = newRedirectTracker(e.maxRedirectDepth)
	}
	tracker := e.redirectTracker
	e.mu.Unlock()

	if err := tracker.visit(target.Route); err != nil {
		e.breadcrumbs.Record("redirect", "redirect rejected by tracker", map[string]interface{}{"from_route": fromRoute, "to_route": target.Route, "generation": gen})
		e.reporter.ReportError(err, &obslog.ErrorContext{
			Phase: "redirect", FromRoute: fromRoute, ToRoute: target.Route, Generation: gen, Timestamp: e.now(), Breadcrumbs: e.breadcrumbs.Snapshot(),
		})
		e.mu.Lock()
		e.redirectTracker = nil
		e.pendingHash = nil
		e.mu.Unlock()
		e.restoreHash()
		return
	}

	e.mu.Lock()
	e.pendingHash = nil
	e.redirecting = true
	e.mu.Unlock()

	navErr := e.hostRouter.Navigate(NavigationTarget{
		Route: target.Route, Params: target.Params, ComponentTarget: target.ComponentTarget,
	}, true)

	e.mu.Lock()
	e.redirecting = false
	e.redirectTracker = nil
	e.mu.Unlock()

	if navErr != nil {
		e.breadcrumbs.Record("redirect", "host router navigate failed", map[string]interface{}{"from_route": fromRoute, "to_route": target.Route})
		e.reporter.ReportError(&GuardError{
			Code: ErrCodeGuardFailed, Message: "host router navigate failed during redirect",
			FromRoute: fromRoute, ToRoute: target.Route, Cause: navErr,
		}, &obslog.ErrorContext{Phase: "redirect", FromRoute: fromRoute, ToRoute: target.Route, Generation: gen, Timestamp: e.now(), Breadcrumbs: e.breadcrumbs.Snapshot()})
		return
	}
	e.metrics.IncRedirect(fromRoute, target.Route)
	e.breadcrumbs.Record("redirect", "navigation redirected", map[string]interface{}{"from_route": fromRoute, "to_route": target.Route, "generation": gen})
}

// restoreHash writes the last committed hash back to the HashSource,
// suppressing the resulting Parse re-entry so the write doesn't get
// re-evaluated as a brand new navigation (spec.md §4.6).
func (e *Engine) restoreHash() {
	e.mu.Lock()
	e.suppressNextParse = true
	hash := ""
	if e.currentHash != nil {
		hash = *e.currentHash
	}
	e.mu.Unlock()

	e.hashSource.ReplaceHash(hash)

	e.mu.Lock()
	e.suppressNextParse = false
	e.mu.Unlock()
}

func (e *Engine) reportStaleDiscard(gen uint64, toRoute string) {
	e.metrics.IncStaleDiscard()
	e.reporter.ReportDebug("stale pipeline result discarded", &obslog.ErrorContext{
		Phase: "apply", ToRoute: toRoute, Generation: gen, Timestamp: e.now(), Breadcrumbs: e.breadcrumbs.Snapshot(),
	})
}
