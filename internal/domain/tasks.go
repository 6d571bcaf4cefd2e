package domain

import "context"

// Task names dispatched through the TaskQueue.
const (
	TaskSendConfirmationEmail    = "send_confirmation_email"
	TaskRecomputeAnnouncement    = "recompute_announcement"
	TaskRecomputeFeaturedSpeaker = "recompute_featured_speaker"
)

// TaskHandler processes a queued task. Handlers must be idempotent: delivery
// is at-least-once and a failed handler may run again.
type TaskHandler func(ctx context.Context, params map[string]string) error

// TaskQueue is a fire-and-forget task dispatch boundary. Enqueue returns as
// soon as the task is accepted; no caller waits on the result, and handler
// failures never propagate to the enqueuing request.
type TaskQueue interface {
	Enqueue(ctx context.Context, taskName string, params map[string]string) error
}
