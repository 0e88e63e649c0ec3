package pipeline

import "context"

// CancellationToken is the cooperative cancellation signal passed to every
// system each tick. It wraps a context.Context so parallel systems can poll
// it (or select on its Done channel) without the pipeline depending on a
// bespoke cancellation primitive; serial systems may ignore it entirely.
// Cancellation is advisory: in-flight work may complete.
type CancellationToken struct {
	ctx context.Context
}

// NewCancellationToken wraps ctx as a CancellationToken.
func NewCancellationToken(ctx context.Context) CancellationToken {
	return CancellationToken{ctx: ctx}
}

// Cancelled reports whether the token has been signalled.
func (t CancellationToken) Cancelled() bool {
	if t.ctx == nil {
		return false
	}
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// Done returns the underlying channel, for use in select statements.
func (t CancellationToken) Done() <-chan struct{} {
	if t.ctx == nil {
		return nil
	}
	return t.ctx.Done()
}

// Context is passed by reference to every system call each tick.
type Context struct {
	// DeltaTicks is the non-negative number of ticks elapsed since the last
	// Execute call.
	DeltaTicks int64
	// CurrentTick is the pipeline's monotonic tick counter after this
	// Execute call's delta has been applied.
	CurrentTick int64
	// Cancellation is the cooperative cancellation signal for this
	// Execute call.
	Cancellation CancellationToken
}
