package queue

import "errors"

var (
	// ErrRepositoryNil is returned when a component is constructed with a
	// nil storage repository.
	ErrRepositoryNil = errors.New("queue: repository is nil")
	// ErrPayloadNil is returned by Enqueue when given a nil payload.
	ErrPayloadNil = errors.New("queue: payload is nil")
	// ErrInvalidPriority is returned when a task's priority falls outside
	// PriorityMin..PriorityMax.
	ErrInvalidPriority = errors.New("queue: priority out of range")
	// ErrUnknownTaskName is returned by Enqueue when the task name has no
	// registered handler and handler validation is enabled.
	ErrUnknownTaskName = errors.New("queue: task name has no registered handler")

	// ErrNoTaskToClaim is returned by ClaimTask when no eligible task is
	// available; callers treat this as "poll again later", not a failure.
	ErrNoTaskToClaim = errors.New("queue: no task to claim")
	// ErrWorkerNotRunning is returned by worker operations invoked before
	// Start or after Stop.
	ErrWorkerNotRunning = errors.New("queue: worker is not running")
	// ErrWorkerOverloaded is returned by Healthcheck when every
	// concurrency slot has been occupied longer than the health threshold.
	ErrWorkerOverloaded = errors.New("queue: worker is overloaded")
	// ErrTaskAlreadyRegistered is returned by RegisterHandler for a
	// duplicate task name.
	ErrTaskAlreadyRegistered = errors.New("queue: task handler already registered")
	// ErrHandlerNotFound is returned when no handler is registered for a
	// claimed task's name.
	ErrHandlerNotFound = errors.New("queue: no handler registered for task")
	// ErrNoHandlers is returned by Start when the worker has no
	// registered handlers and the service requires at least one.
	ErrNoHandlers = errors.New("queue: worker has no registered handlers")

	// ErrSchedulerNotConfigured is returned by scheduler operations before
	// any periodic task has been added.
	ErrSchedulerNotConfigured = errors.New("queue: scheduler has no tasks configured")
	// ErrSchedulerNotRunning is returned by scheduler operations invoked
	// before Start or after Stop.
	ErrSchedulerNotRunning = errors.New("queue: scheduler is not running")
	// ErrNoTasksRegistered is returned by Healthcheck when the scheduler
	// has no tasks registered.
	ErrNoTasksRegistered = errors.New("queue: no periodic tasks registered")

	// ErrServiceAlreadyRunning is returned by Run/Start when the service
	// has already been started.
	ErrServiceAlreadyRunning = errors.New("queue: service is already running")
	// ErrServiceNotConfiguring is returned by registration methods
	// (RegisterHandler, AddScheduledTask) called after the service has
	// started.
	ErrServiceNotConfiguring = errors.New("queue: service is no longer accepting configuration")

	// ErrHealthcheckFailed wraps a component's Healthcheck failure.
	ErrHealthcheckFailed = errors.New("queue: healthcheck failed")
)
