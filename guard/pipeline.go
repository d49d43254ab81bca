package guard

import (
	"context"
	"runtime/debug"

	"github.com/wridgeu/ui5-lib-guard-router-sub000/internal/obslog"
)

// Parse is the interception entry point: the HashSource calls it
// synchronously on every hash change. Parse never blocks on an async guard
// and never returns a value — per the engine's contract, callers observe
// outcomes exclusively through the HostRouter's own notifications (commits)
// or unchanged URL state (blocks). This is Engine's only method intended to
// be wired directly as a HashSource.OnHashChanged callback; it is exported
// so a HostRouter or test can also invoke it directly after a programmatic
// hash write that doesn't route through the usual subscription.
func (e *Engine) Parse(newHash string) {
	e.mu.Lock()
	if e.suppressNextParse {
		e.suppressNextParse = false
		e.mu.Unlock()
		return
	}

	if e.redirecting {
		e.mu.Unlock()
		e.commitBypass(newHash)
		return
	}

	if e.currentHash != nil && newHash == *e.currentHash {
		e.pendingHash = nil
		e.generation++
		if e.cancelToken != nil {
			e.cancelToken.Abort()
			e.cancelToken = nil
		}
		e.mu.Unlock()
		return
	}

	if e.pendingHash != nil && newHash == *e.pendingHash {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	toRoute, args, matched := e.hostRouter.Resolve(newHash)
	if !matched {
		toRoute = ""
	}

	e.mu.Lock()
	if e.cancelToken != nil {
		e.cancelToken.Abort()
	}
	e.generation++
	gen := e.generation
	token := newCancelToken(context.Background())
	e.cancelToken = token
	e.redirectTracker = nil

	hashCopy := newHash
	e.pendingHash = &hashCopy

	fromRoute := e.currentRoute
	fromHash := ""
	if e.currentHash != nil {
		fromHash = *e.currentHash
	}

	fastPath := !e.reg.hasLeaveGuards(fromRoute) && !e.reg.hasEnterGuards(toRoute)
	if fastPath {
		e.mu.Unlock()
		e.commitChecked(gen, newHash, toRoute)
		return
	}

	leaves := e.reg.snapshotLeave(fromRoute)
	globals := e.reg.snapshotGlobalEnter()
	routes := e.reg.snapshotRouteEnter(toRoute)
	e.mu.Unlock()

	ctx := &GuardContext{
		ToRoute:     toRoute,
		ToHash:      newHash,
		ToArguments: args,
		FromRoute:   fromRoute,
		FromHash:    fromHash,
		Signal:      token,
	}

	e.runPipeline(gen, token, ctx, leaves, globals, routes)
}

// runPipeline drives phases Leave -> Global-enter -> Route-enter in order,
// each short-circuiting on the first non-allow. It stays synchronous for as
// long as every guard resolves synchronously; the first Eventual spawns a
// goroutine that continues the remaining guards and phases as the spec's
// "tail continuation."
func (e *Engine) runPipeline(gen uint64, token *CancelToken, ctx *GuardContext, leaves []leaveEntry, globals, routes []enterEntry) {
	e.runLeavePhase(gen, token, ctx, leaves, 0, func() {
		e.runEnterPhase(gen, token, ctx, "global_enter", globals, 0, func() {
			e.runEnterPhase(gen, token, ctx, "route_enter", routes, 0, func() {
				e.finish(gen, ctx.FromRoute, ctx.ToRoute, ctx.ToHash, Allow)
			})
		})
	})
}

func (e *Engine) runLeavePhase(gen uint64, token *CancelToken, ctx *GuardContext, entries []leaveEntry, idx int, onAllow func()) {
	if idx >= len(entries) {
		onAllow()
		return
	}
	entry := entries[idx]
	outcome := e.invokeLeaveSafe(entry.guard, ctx, idx, gen, token)

	if outcome.Eventual != nil {
		go func() {
			start := e.now()
			res, err := outcome.Eventual.Await(token.Context())
			e.metrics.ObserveGuardLatency("leave", e.now().Sub(start))

			if token.Aborted() {
				e.finish(gen, ctx.FromRoute, ctx.ToRoute, ctx.ToHash, Block)
				return
			}
			if err != nil {
				e.reporter.ReportError(&GuardError{
					Code: ErrCodeGuardFailed, Message: "leave guard eventual resolved with error",
					FromRoute: ctx.FromRoute, Cause: err,
				}, e.logCtx("leave", idx, gen, ctx))
				e.finish(gen, ctx.FromRoute, ctx.ToRoute, ctx.ToHash, Block)
				return
			}
			if !bool(res) {
				e.finish(gen, ctx.FromRoute, ctx.ToRoute, ctx.ToHash, Block)
				return
			}
			e.runLeavePhase(gen, token, ctx, entries, idx+1, onAllow)
		}()
		return
	}

	if !bool(outcome.Result) {
		e.finish(gen, ctx.FromRoute, ctx.ToRoute, ctx.ToHash, Block)
		return
	}
	e.runLeavePhase(gen, token, ctx, entries, idx+1, onAllow)
}

func (e *Engine) runEnterPhase(gen uint64, token *CancelToken, ctx *GuardContext, phase string, entries []enterEntry, idx int, onAllow func()) {
	if idx >= len(entries) {
		onAllow()
		return
	}
	entry := entries[idx]
	raw := e.invokeEnterSafe(entry.guard, ctx, phase, idx, gen, token)
	result, warning, suspends := raw.resolve()

	if warning != "" {
		invalid := &GuardError{
			Code: ErrCodeInvalidResult, Message: warning,
			FromRoute: ctx.FromRoute, ToRoute: ctx.ToRoute,
		}
		e.reporter.ReportWarning(invalid.Error(), e.logCtx(phase, idx, gen, ctx))
	}

	if suspends {
		go func() {
			start := e.now()
			res, err := raw.Eventual.Await(token.Context())
			e.metrics.ObserveGuardLatency(phase, e.now().Sub(start))

			if token.Aborted() {
				e.finish(gen, ctx.FromRoute, ctx.ToRoute, ctx.ToHash, Block)
				return
			}
			if err != nil {
				e.reporter.ReportError(&GuardError{
					Code: ErrCodeGuardFailed, Message: "guard eventual resolved with error",
					FromRoute: ctx.FromRoute, ToRoute: ctx.ToRoute, Cause: err,
				}, e.logCtx(phase, idx, gen, ctx))
				e.finish(gen, ctx.FromRoute, ctx.ToRoute, ctx.ToHash, Block)
				return
			}
			if !res.IsAllow() {
				e.finish(gen, ctx.FromRoute, ctx.ToRoute, ctx.ToHash, res)
				return
			}
			e.runEnterPhase(gen, token, ctx, phase, entries, idx+1, onAllow)
		}()
		return
	}

	if !result.IsAllow() {
		e.finish(gen, ctx.FromRoute, ctx.ToRoute, ctx.ToHash, result)
		return
	}
	e.runEnterPhase(gen, token, ctx, phase, entries, idx+1, onAllow)
}

// finish is the pipeline's single terminal point: it always goes through
// the gen-checked applier functions, so a result produced by a superseded
// run is discarded there rather than here.
func (e *Engine) finish(gen uint64, fromRoute, toRoute, newHash string, result Result) {
	if result.IsAllow() {
		e.commitChecked(gen, newHash, toRoute)
		return
	}
	if target, ok := result.IsRedirect(); ok {
		e.redirectChecked(gen, fromRoute, toRoute, target)
		return
	}
	e.blockChecked(gen, fromRoute, toRoute)
}

func (e *Engine) invokeLeaveSafe(g LeaveGuard, ctx *GuardContext, idx int, gen uint64, token *CancelToken) (outcome LeaveOutcome) {
	defer func() {
		if r := recover(); r != nil {
			if !token.Aborted() {
				e.reporter.ReportError(&GuardError{
					Code: ErrCodeGuardPanicked, Message: "leave guard panicked during execution",
					FromRoute: ctx.FromRoute,
				}, e.logCtxPanic("leave", idx, gen, ctx, r))
			}
			outcome = LeaveSync(LeaveBlock)
		}
	}()
	return g(ctx)
}

func (e *Engine) invokeEnterSafe(g EnterGuard, ctx *GuardContext, phase string, idx int, gen uint64, token *CancelToken) (outcome EnterOutcome) {
	defer func() {
		if r := recover(); r != nil {
			if !token.Aborted() {
				e.reporter.ReportError(&GuardError{
					Code: ErrCodeGuardPanicked, Message: "guard panicked during execution",
					FromRoute: ctx.FromRoute, ToRoute: ctx.ToRoute,
				}, e.logCtxPanic(phase, idx, gen, ctx, r))
			}
			outcome = Outcome(Block)
		}
	}()
	return g(ctx)
}

func (e *Engine) logCtx(phase string, idx int, gen uint64, ctx *GuardContext) *obslog.ErrorContext {
	return &obslog.ErrorContext{
		Phase: phase, GuardIndex: idx, Generation: gen,
		FromRoute: ctx.FromRoute, ToRoute: ctx.ToRoute, Timestamp: e.now(),
		Breadcrumbs: e.breadcrumbs.Snapshot(),
	}
}

func (e *Engine) logCtxPanic(phase string, idx int, gen uint64, ctx *GuardContext, panicValue any) *obslog.ErrorContext {
	c := e.logCtx(phase, idx, gen, ctx)
	c.StackTrace = debug.Stack()
	c.Extra = map[string]interface{}{"panic_value": panicValue}
	return c
}
