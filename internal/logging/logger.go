// Package logging declares the structured logger the service components
// depend on, so transports and storage stay decoupled from the concrete
// backend (slog in production, a no-op in tests).
package logging

import "context"

// Logger writes structured, context-aware log records. Trailing arguments
// are alternating key/value pairs:
//
//	log.Info(ctx, "session created", "userId", u.ID)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With derives a logger that attaches the given key/value pairs to
	// every record it emits.
	With(args ...any) Logger
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                  { return n }

// Nop returns a logger that discards everything. Handy in tests.
func Nop() Logger { return nopLogger{} }
