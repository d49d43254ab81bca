package guard

// NavigationTarget specifies a programmatic navigation destination, used
// by the result applier to dispatch a guard-initiated redirect through the
// HostRouter.
type NavigationTarget struct {
	Route           string
	Params          map[string]string
	ComponentTarget any
}

// HostRouter is the external, guard-agnostic routing framework the engine
// wraps. It owns route matching, view loading, and route-matched
// notifications — none of which are this engine's concern (§1 Non-goals).
type HostRouter interface {
	// Resolve matches hash to a route, returning its name and extracted
	// arguments, or matched == false if nothing matched.
	Resolve(hash string) (routeName string, args map[string]any, matched bool)

	// Navigate performs a programmatic navigation to target. When replace
	// is true, no history entry is created (used for guard redirects).
	// Navigate is expected to synchronously trigger the HashSource change
	// notification that in turn calls back into Engine.Parse.
	Navigate(target NavigationTarget, replace bool) error

	// ParseCommitted hands a committed, guard-approved hash to the host
	// router so it can load the matching view and fire its own
	// route-matched notification.
	ParseCommitted(hash string)

	// Close tears down any resources the host router owns.
	Close()
}
