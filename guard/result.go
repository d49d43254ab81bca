package guard

// resultKind discriminates the variants of Result. It is unexported: the
// only way to produce a Result is through the constructors below, which is
// the Go stand-in for a closed tagged union.
type resultKind int

const (
	kindAllow resultKind = iota
	kindBlock
	kindRedirectWithParams
)

// Result is the outcome of an enter guard: allow, block, or redirect
// (by route name, or by a structured target). It is a small value type with
// an unexported discriminator, the idiomatic Go rendering of a sum type.
// Result is comparable with ==: Allow and Block carry no target, so each
// equals only itself, while a redirect Result holds its target by pointer
// and equals only a copy of the same Result value.
type Result struct {
	kind   resultKind
	target *RedirectTarget
}

// RedirectTarget describes a structured redirect: a target route name,
// optional path parameters, and an opaque component target understood only
// by the HostRouter.
type RedirectTarget struct {
	Route          string
	Params         map[string]string
	ComponentTarget any
}

// Allow permits the navigation to proceed. It is the only Result value
// treated as an allow by the pipeline.
var Allow = Result{kind: kindAllow}

// Block prevents the navigation; the engine restores the prior hash.
var Block = Result{kind: kindBlock}

// RedirectByName constructs a Result that redirects to the named route.
func RedirectByName(routeName string) Result {
	return Result{kind: kindRedirectWithParams, target: &RedirectTarget{Route: routeName}}
}

// RedirectWithParams constructs a structured redirect Result.
func RedirectWithParams(target RedirectTarget) Result {
	return Result{kind: kindRedirectWithParams, target: &target}
}

// IsAllow reports whether r is exactly the Allow sentinel.
func (r Result) IsAllow() bool { return r.kind == kindAllow }

// IsBlock reports whether r is exactly the Block sentinel.
func (r Result) IsBlock() bool { return r.kind == kindBlock }

// IsRedirect reports whether r carries a redirect target, returning it.
func (r Result) IsRedirect() (RedirectTarget, bool) {
	if r.kind == kindRedirectWithParams {
		return *r.target, true
	}
	return RedirectTarget{}, false
}

// LeaveResult is the outcome of a leave guard: Allow or Block only, no
// redirect variant. It is backed by bool so it reads the same as Result at
// call sites while remaining a distinct, named type per the API contract.
type LeaveResult bool

const (
	// LeaveAllow permits leaving the current route.
	LeaveAllow LeaveResult = true

	// LeaveBlock prevents leaving the current route.
	LeaveBlock LeaveResult = false
)

// coerceResult validates a guard's raw return value against the accepted
// taxonomy (Result, string route name, or RedirectTarget), coercing
// anything else to Block. This is the validation boundary the spec calls
// for: Go's type system rules out most invalid shapes at compile time, so
// the only runtime case left is a guard handing back a raw string (treated
// as RedirectByName) or a RedirectTarget (treated as RedirectWithParams,
// but only when Route is non-empty, per the stricter predicate adopted in
// DESIGN.md).
func coerceResult(v any) (result Result, warning string) {
	switch val := v.(type) {
	case Result:
		return val, ""
	case string:
		if val == "" {
			return Block, "enter guard returned an empty route name"
		}
		return RedirectByName(val), ""
	case RedirectTarget:
		if val.Route == "" {
			return Block, "enter guard returned a RedirectTarget with no Route"
		}
		return RedirectWithParams(val), ""
	case nil:
		return Block, "enter guard returned nil"
	default:
		return Block, "enter guard returned an unrecognized value type"
	}
}
