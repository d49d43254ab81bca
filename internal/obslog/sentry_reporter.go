package obslog

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryReporter sends guard-engine errors and warnings to Sentry. It is an
// opt-in adapter: the engine never imports a transport on its own, an
// embedding application wires this in via guard.WithErrorReporter when it
// wants hosted error tracking.
type SentryReporter struct {
	hub *sentry.Hub
}

// SentryOption configures the Sentry client used by a SentryReporter.
type SentryOption func(*sentry.ClientOptions)

// WithDebug enables Sentry SDK debug logging.
func WithDebug(debug bool) SentryOption {
	return func(o *sentry.ClientOptions) { o.Debug = debug }
}

// WithEnvironment tags all reported events with the given environment.
func WithEnvironment(environment string) SentryOption {
	return func(o *sentry.ClientOptions) { o.Environment = environment }
}

// WithRelease tags all reported events with the given release identifier.
func WithRelease(release string) SentryOption {
	return func(o *sentry.ClientOptions) { o.Release = release }
}

// NewSentryReporter initializes the Sentry SDK with dsn and returns a
// reporter backed by the resulting hub. An empty dsn disables sending,
// which is useful in tests.
func NewSentryReporter(dsn string, opts ...SentryOption) (*SentryReporter, error) {
	clientOpts := sentry.ClientOptions{Dsn: dsn}
	for _, opt := range opts {
		opt(&clientOpts)
	}

	if err := sentry.Init(clientOpts); err != nil {
		return nil, fmt.Errorf("obslog: initialize sentry: %w", err)
	}

	return &SentryReporter{hub: sentry.CurrentHub()}, nil
}

func (r *SentryReporter) ReportError(err error, ctx *ErrorContext) {
	r.hub.WithScope(func(scope *sentry.Scope) {
		r.applyContext(scope, ctx)
		scope.SetLevel(sentry.LevelError)
		r.hub.CaptureException(err)
	})
}

func (r *SentryReporter) ReportWarning(message string, ctx *ErrorContext) {
	r.hub.WithScope(func(scope *sentry.Scope) {
		r.applyContext(scope, ctx)
		scope.SetLevel(sentry.LevelWarning)
		r.hub.CaptureMessage(message)
	})
}

func (r *SentryReporter) ReportDebug(message string, ctx *ErrorContext) {
	r.hub.WithScope(func(scope *sentry.Scope) {
		r.applyContext(scope, ctx)
		scope.SetLevel(sentry.LevelDebug)
		r.hub.CaptureMessage(message)
	})
}

func (r *SentryReporter) applyContext(scope *sentry.Scope, ctx *ErrorContext) {
	scope.SetTag("phase", ctx.Phase)
	scope.SetTag("from_route", ctx.FromRoute)
	scope.SetTag("to_route", ctx.ToRoute)
	scope.SetTag("generation", fmt.Sprintf("%d", ctx.Generation))

	for k, v := range ctx.Tags {
		scope.SetTag(k, v)
	}
	for k, v := range ctx.Extra {
		scope.SetExtra(k, v)
	}

	for _, bc := range ctx.Breadcrumbs {
		scope.AddBreadcrumb(&sentry.Breadcrumb{
			Category:  bc.Category,
			Message:   bc.Message,
			Level:     sentry.Level(bc.Level),
			Timestamp: bc.Timestamp,
			Data:      bc.Data,
		}, MaxBreadcrumbs)
	}
}

// Flush blocks until pending events are sent or timeout elapses.
func (r *SentryReporter) Flush(timeout time.Duration) error {
	sentry.Flush(timeout)
	return nil
}
