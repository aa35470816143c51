package queue

import "time"

// Config holds the configuration for the task queue
type Config struct {
	// Worker configuration
	PollInterval       time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"5s"`
	LockTimeout        time.Duration `env:"QUEUE_LOCK_TIMEOUT" envDefault:"5m"`
	ShutdownTimeout    time.Duration `env:"QUEUE_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MaxConcurrentTasks int           `env:"QUEUE_MAX_CONCURRENT_TASKS" envDefault:"10"`
	Queues             []string      `env:"QUEUE_WORKER_QUEUES" envDefault:"default" envSeparator:","`

	// Scheduler configuration
	CheckInterval time.Duration `env:"QUEUE_CHECK_INTERVAL" envDefault:"10s"`

	// Enqueuer configuration
	DefaultQueue    string   `env:"QUEUE_DEFAULT_QUEUE" envDefault:"default"`
	DefaultPriority Priority `env:"QUEUE_DEFAULT_PRIORITY" envDefault:"50"` // PriorityMedium

	// Retry backoff configuration: delay = min(baseDelay * multiplier^attempt, maxDelay),
	// optionally jittered to uniform[0.5, 1.0] of that value.
	RetryBaseDelay        time.Duration `env:"QUEUE_RETRY_BASE_DELAY" envDefault:"30s"`
	RetryBackoffMultiplier float64      `env:"QUEUE_RETRY_BACKOFF_MULTIPLIER" envDefault:"2.0"`
	RetryMaxDelay         time.Duration `env:"QUEUE_RETRY_MAX_DELAY" envDefault:"1h"`
	RetryUseJitter        bool          `env:"QUEUE_RETRY_USE_JITTER" envDefault:"true"`

	// StaleTimeout bounds how long a task may sit in processing before
	// ReleaseStale reclaims it back to pending.
	StaleTimeout      time.Duration `env:"QUEUE_STALE_TIMEOUT" envDefault:"10m"`
	StaleCheckInterval time.Duration `env:"QUEUE_STALE_CHECK_INTERVAL" envDefault:"1m"`
}

func DefaultConfig() Config {
	return Config{
		// Worker defaults
		PollInterval:       5 * time.Second,
		LockTimeout:        5 * time.Minute,
		ShutdownTimeout:    30 * time.Second,
		MaxConcurrentTasks: 10,
		Queues:             []string{"default"},

		// Scheduler defaults
		CheckInterval: 10 * time.Second,

		// Enqueuer defaults
		DefaultQueue:    "default",
		DefaultPriority: PriorityMedium,

		// Retry backoff defaults
		RetryBaseDelay:         30 * time.Second,
		RetryBackoffMultiplier: 2.0,
		RetryMaxDelay:          time.Hour,
		RetryUseJitter:         true,

		// Stale reclamation defaults
		StaleTimeout:       10 * time.Minute,
		StaleCheckInterval: time.Minute,
	}
}
