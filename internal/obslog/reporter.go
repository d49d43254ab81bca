// Package obslog provides the guard engine's ambient logging and error
// reporting surface.
//
// The engine never hard-codes a telemetry backend. Every failure path routes
// through the ErrorReporter interface defined here; callers plug in a
// ConsoleReporter (the default), a SentryReporter, or their own
// implementation. This package holds no package-level reporter; the engine
// falls back to a non-verbose ConsoleReporter when none is supplied.
package obslog

import "time"

// ErrorReporter is a pluggable sink for guard-engine failures and
// diagnostics.
//
// Implementations must be safe for concurrent use: the pipeline driver may
// call into a reporter from the goroutine running an async guard tail while
// Parse is being invoked again on another goroutine.
type ErrorReporter interface {
	// ReportError reports a guard failure or any other error-level
	// condition.
	ReportError(err error, ctx *ErrorContext)

	// ReportWarning reports a recoverable, non-fatal condition (e.g. a
	// guard returning a value outside the accepted result taxonomy).
	ReportWarning(message string, ctx *ErrorContext)

	// ReportDebug reports a low-severity diagnostic, such as a stale
	// result being discarded at a generation check.
	ReportDebug(message string, ctx *ErrorContext)

	// Flush blocks until pending reports are delivered or timeout elapses.
	Flush(timeout time.Duration) error
}

// ErrorContext carries the navigation context around a reported event.
type ErrorContext struct {
	// Phase identifies which part of the engine produced the event
	// ("leave", "global_enter", "route_enter", "apply", "redirect",
	// "registry").
	Phase string

	// GuardIndex is the position of the offending guard within its phase.
	// Events not tied to a guard ("apply", "redirect", "registry") leave it
	// at zero.
	GuardIndex int

	// FromRoute / ToRoute identify the navigation the event concerns.
	FromRoute string
	ToRoute   string

	// Generation is the pipeline generation active when the event fired.
	Generation uint64

	// Tags are low-cardinality key/value pairs for filtering.
	Tags map[string]string

	// Extra carries arbitrary higher-cardinality diagnostic data.
	Extra map[string]interface{}

	// Breadcrumbs is a trail of recent navigation decisions leading up to
	// the event.
	Breadcrumbs []Breadcrumb

	// StackTrace optionally captures the stack at the point of a recovered
	// guard panic.
	StackTrace []byte

	Timestamp time.Time
}
