package guard

import (
	"time"

	"github.com/wridgeu/ui5-lib-guard-router-sub000/internal/obslog"
	"github.com/wridgeu/ui5-lib-guard-router-sub000/internal/obsmetrics"
)

// Option configures an Engine at construction time, following the
// teacher's functional-options pattern (router/options.go,
// router/builder.go) collapsed onto a single NewEngine call rather than a
// builder, since the guard engine — unlike the teacher's full Router —
// does not itself own route registration.
type Option func(*Engine)

// WithErrorReporter installs the reporter every guard failure, warning, and
// debug trace is sent through. Defaults to a non-verbose
// obslog.ConsoleReporter.
func WithErrorReporter(r obslog.ErrorReporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithMetricsRecorder installs the Recorder the pipeline and applier report
// outcomes to. Defaults to obsmetrics.NoopRecorder{}.
func WithMetricsRecorder(m obsmetrics.Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithMaxRedirectDepth overrides the redirect tracker's depth bound
// (default 10; a value <= 0 keeps the default). See redirect_tracker.go for
// how the engine uses the tracker.
func WithMaxRedirectDepth(n int) Option {
	return func(e *Engine) { e.maxRedirectDepth = n }
}

// WithClock overrides the time source used for guard latency metrics.
// Exposed for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}
