// Package monitoring defines the minimal monitoring surface the sync engine
// reports into: errors with structured context and breadcrumbs for major
// state transitions. Implementations can wrap zap, slog, a crash reporter,
// etc.
package monitoring

import "context"

// Monitor receives failures and state-transition breadcrumbs from the
// engine. The variadic args are interpreted as key-value pairs, e.g.:
//
//	m.AddBreadcrumb(ctx, "sync pass started", "sync", "notes", len(notes))
type Monitor interface {
	// LogError records a failure with its context message and fields.
	LogError(ctx context.Context, err error, msg string, args ...any)

	// AddBreadcrumb records a low-severity event in the given category.
	AddBreadcrumb(ctx context.Context, msg string, category string, args ...any)
}

// Nop is a Monitor that discards everything.
type Nop struct{}

func (Nop) LogError(context.Context, error, string, ...any)      {}
func (Nop) AddBreadcrumb(context.Context, string, string, ...any) {}
