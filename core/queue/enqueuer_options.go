package queue

import "time"

// enqueuerOptions holds the defaults a *Enqueuer falls back to when a call
// to Enqueue doesn't override them.
type enqueuerOptions struct {
	defaultQueue    string
	defaultPriority Priority
}

// EnqueuerOption configures a *Enqueuer at construction time.
type EnqueuerOption func(*enqueuerOptions)

// WithDefaultQueue sets the queue new tasks are assigned to when Enqueue's
// caller doesn't specify one via WithQueue.
func WithDefaultQueue(queue string) EnqueuerOption {
	return func(o *enqueuerOptions) {
		if queue != "" {
			o.defaultQueue = queue
		}
	}
}

// WithDefaultPriority sets the priority new tasks are assigned when
// Enqueue's caller doesn't specify one via WithPriority.
func WithDefaultPriority(priority Priority) EnqueuerOption {
	return func(o *enqueuerOptions) {
		if priority.Valid() {
			o.defaultPriority = priority
		}
	}
}

// enqueueOptions holds the per-call overrides accepted by Enqueue.
type enqueueOptions struct {
	queue         string
	priority      Priority
	maxRetries    int8
	taskName      string
	scheduledAt   *time.Time
	delay         time.Duration
	metadata      map[string]string
	timeoutMillis int64
}

// EnqueueOption customizes a single Enqueue call.
type EnqueueOption func(*enqueueOptions)

// WithQueue routes the task to a specific queue instead of the enqueuer's
// default.
func WithQueue(queue string) EnqueueOption {
	return func(o *enqueueOptions) {
		if queue != "" {
			o.queue = queue
		}
	}
}

// WithPriority overrides the task's priority.
func WithPriority(priority Priority) EnqueueOption {
	return func(o *enqueueOptions) {
		o.priority = priority
	}
}

// WithMaxRetries overrides the number of retry attempts before a task is
// moved to TaskStatusFailed.
func WithMaxRetries(maxRetries int8) EnqueueOption {
	return func(o *enqueueOptions) {
		o.maxRetries = maxRetries
	}
}

// WithTaskName overrides the task name derived from the payload's type.
// Handler registries key on this name, so it must match a registered
// Handler.Name().
func WithTaskName(name string) EnqueueOption {
	return func(o *enqueueOptions) {
		o.taskName = name
	}
}

// WithDelay schedules the task to become eligible after delay has
// elapsed, relative to the Enqueue call.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(o *enqueueOptions) {
		o.delay = delay
	}
}

// WithScheduledAt schedules the task for a specific instant, overriding
// WithDelay if both are given.
func WithScheduledAt(at time.Time) EnqueueOption {
	return func(o *enqueueOptions) {
		o.scheduledAt = &at
	}
}

// WithMetadata attaches caller-supplied tags to the task, opaque to the
// queue itself.
func WithMetadata(metadata map[string]string) EnqueueOption {
	return func(o *enqueueOptions) {
		o.metadata = metadata
	}
}

// WithTimeout bounds a single execution attempt of the task.
func WithTimeout(d time.Duration) EnqueueOption {
	return func(o *enqueueOptions) {
		o.timeoutMillis = d.Milliseconds()
	}
}
