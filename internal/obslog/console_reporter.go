package obslog

import (
	"log"
	"sync"
	"time"
)

// ConsoleReporter logs events to the standard logger. It is the engine's
// zero-configuration default: no network calls, no external service.
//
// In verbose mode, stack traces captured on guard panics are included in
// the output.
type ConsoleReporter struct {
	verbose bool
	mu      sync.Mutex
}

// NewConsoleReporter creates a console reporter. When verbose is true,
// captured stack traces are printed alongside error reports.
func NewConsoleReporter(verbose bool) *ConsoleReporter {
	return &ConsoleReporter{verbose: verbose}
}

func (r *ConsoleReporter) ReportError(err error, ctx *ErrorContext) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Printf("[ERROR] guard phase=%s from=%s to=%s gen=%d: %v",
		ctx.Phase, ctx.FromRoute, ctx.ToRoute, ctx.Generation, err)

	if r.verbose && len(ctx.StackTrace) > 0 {
		log.Printf("stack trace:\n%s", ctx.StackTrace)
	}
}

func (r *ConsoleReporter) ReportWarning(message string, ctx *ErrorContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.Printf("[WARN] guard phase=%s from=%s to=%s gen=%d: %s",
		ctx.Phase, ctx.FromRoute, ctx.ToRoute, ctx.Generation, message)
}

func (r *ConsoleReporter) ReportDebug(message string, ctx *ErrorContext) {
	if !r.verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	log.Printf("[DEBUG] guard phase=%s from=%s to=%s gen=%d: %s",
		ctx.Phase, ctx.FromRoute, ctx.ToRoute, ctx.Generation, message)
}

// Flush is a no-op: console output is synchronous and immediate.
func (r *ConsoleReporter) Flush(timeout time.Duration) error {
	return nil
}
