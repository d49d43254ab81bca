package guard

// GuardContext is the per-navigation value passed to every guard. It is
// immutable from the guard's perspective: guards read it but never mutate
// engine state through it.
type GuardContext struct {
	// ToRoute is the resolved route name for the new hash, "" if no route
	// matched.
	ToRoute string

	// ToHash is the raw new hash string.
	ToHash string

	// ToArguments maps parameter name to string value, or to a nested
	// map[string]any for nested parameters.
	ToArguments map[string]any

	// FromRoute is the active route name, "" before the first commit.
	FromRoute string

	// FromHash is the active hash, "" before the first commit.
	FromHash string

	// Signal transitions to aborted when this navigation is superseded or
	// the engine is torn down. Guards performing I/O should select on
	// Signal.Done() alongside their own work.
	Signal *CancelToken
}

// EnterGuard decides whether a navigation into a route may proceed. It
// returns either a synchronous EnterOutcome carrying a Result, or one
// carrying an Eventual[Result] when the guard must suspend (e.g. an
// authentication check against a remote service).
type EnterGuard func(ctx *GuardContext) EnterOutcome

// LeaveGuard decides whether navigation may leave the current route. It
// answers strictly Allow/Block, synchronously or eventually.
type LeaveGuard func(ctx *GuardContext) LeaveOutcome

// EnterOutcome is what an EnterGuard returns: exactly one of Result or
// Eventual should be set. Constructing it directly with a Result is the
// common case (Outcome(myResult)); Raw exists for guards adapted from
// looser, duck-typed call sites that only have an `any` in hand (see
// coerceResult) and still want to return a plain Outcome literal.
type EnterOutcome struct {
	Result   Result
	Eventual *Eventual[Result]
	Raw      any
}

// Outcome wraps a synchronous Result into an EnterOutcome. This is the
// ordinary way a guard returns a value.
func Outcome(r Result) EnterOutcome {
	return EnterOutcome{Result: r}
}

// Suspend wraps an Eventual[Result] into an EnterOutcome, signaling that
// the pipeline driver must escalate to its async tail continuation.
func Suspend(ev *Eventual[Result]) EnterOutcome {
	return EnterOutcome{Eventual: ev}
}

// resolve returns the outcome's synchronous Result, a warning message if
// Raw needed coercion, and whether the outcome actually suspends.
func (o EnterOutcome) resolve() (result Result, warning string, suspends bool) {
	if o.Eventual != nil {
		return Result{}, "", true
	}
	if o.Raw != nil {
		result, warning = coerceResult(o.Raw)
		return result, warning, false
	}
	return o.Result, "", false
}

// LeaveOutcome is what a LeaveGuard returns: exactly one of Result or
// Eventual should be set.
type LeaveOutcome struct {
	Result   LeaveResult
	Eventual *Eventual[LeaveResult]
}

// LeaveSync wraps a synchronous LeaveResult.
func LeaveSync(r LeaveResult) LeaveOutcome {
	return LeaveOutcome{Result: r}
}

// LeaveSuspend wraps an Eventual[LeaveResult].
func LeaveSuspend(ev *Eventual[LeaveResult]) LeaveOutcome {
	return LeaveOutcome{Eventual: ev}
}
