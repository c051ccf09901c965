package executor

import "context"

// Result is the outcome of a single handler invocation.
type Result struct {
	// OK is true when the handler completed successfully.
	OK bool

	// Message is the handler's human-readable outcome text, relayed
	// back to the caller verbatim.
	Message string
}

// Handler performs the work behind a registered command. The context
// carries the per-job deadline; implementations must stop promptly
// when it is cancelled.
type Handler interface {
	Invoke(ctx context.Context, commandText string) Result
}

// HandlerFunc adapts a plain function to the Handler interface. Used
// for in-process commands that need no external script.
type HandlerFunc func(ctx context.Context, commandText string) Result

// Invoke calls f.
func (f HandlerFunc) Invoke(ctx context.Context, commandText string) Result {
	return f(ctx, commandText)
}
