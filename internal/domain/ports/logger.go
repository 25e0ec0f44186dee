package ports

import "context"

// Logger is the structured logger the use cases and adapters write to.
// Args are alternating key/value pairs.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is for failures that were absorbed, like one notifier of several.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}
