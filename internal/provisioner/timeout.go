package provisioner

import (
	"context"
	"time"
)

// DefaultTimeout bounds a backend operation when the caller context has no deadline.
const DefaultTimeout = 10 * time.Minute

// DefaultMargin is kept free before the host deadline so a response can still
// be returned after a backend call times out.
const DefaultMargin = 10 * time.Second

// WithOperationTimeout derives the context a backend call runs under.
// With a parent deadline the call ends margin earlier; otherwise timeout applies.
func WithOperationTimeout(ctx context.Context, timeout, margin time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if margin < 0 {
		margin = 0
	}

	if deadline, ok := ctx.Deadline(); ok {
		early := deadline.Add(-margin)
		if early.After(time.Now()) {
			return context.WithDeadline(ctx, early)
		}
		// Not enough room for the margin; keep the host deadline.
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
