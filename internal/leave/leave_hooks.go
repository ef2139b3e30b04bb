package leave

import "context"

// LifecycleHook observes committed leave changes. Hooks are not called for
// writes made with contextutil.WithSkipSync, and cannot fail the operation
// that fired them.
type LifecycleHook interface {
	LeaveCreated(ctx context.Context, l Leave)
	LeaveWritten(ctx context.Context, l Leave, p Patch)
	// LeaveDeleting runs before the row is removed.
	LeaveDeleting(ctx context.Context, l Leave)
}
