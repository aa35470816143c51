package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexora/webkit/core/queue"
)

// QueueStorage implements queue.Storage on top of a pgxpool.Pool, using
// `SELECT ... FOR UPDATE SKIP LOCKED` so concurrent workers never block on
// each other's in-flight claims.
//
// Expected schema (see Migrate for applying it):
//
//	CREATE TABLE tasks (
//		id uuid PRIMARY KEY,
//		queue text NOT NULL,
//		task_type text NOT NULL,
//		task_name text NOT NULL,
//		payload bytea,
//		status text NOT NULL,
//		priority smallint NOT NULL,
//		retry_count smallint NOT NULL DEFAULT 0,
//		max_retries smallint NOT NULL DEFAULT 0,
//		scheduled_at timestamptz NOT NULL,
//		locked_until timestamptz,
//		locked_by uuid,
//		worker_id uuid,
//		started_at timestamptz,
//		processed_at timestamptz,
//		completed_at timestamptz,
//		error text,
//		stack_trace text,
//		metadata jsonb,
//		timeout_millis bigint NOT NULL DEFAULT 0,
//		created_at timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE TABLE tasks_dlq (
//		id uuid PRIMARY KEY,
//		task_id uuid NOT NULL,
//		queue text NOT NULL,
//		task_type text NOT NULL,
//		task_name text NOT NULL,
//		payload bytea,
//		priority smallint NOT NULL,
//		error text NOT NULL,
//		retry_count smallint NOT NULL,
//		failed_at timestamptz NOT NULL,
//		created_at timestamptz NOT NULL DEFAULT now()
//	);
type QueueStorage struct {
	pool *pgxpool.Pool
}

// NewQueueStorage wraps pool as a queue.Storage implementation.
func NewQueueStorage(pool *pgxpool.Pool) *QueueStorage {
	return &QueueStorage{pool: pool}
}

// querier abstracts over *pgxpool.Pool and pgx.Tx so every method can run
// inside a caller-supplied transaction via WithTx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *QueueStorage) q(ctx context.Context) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

// CreateTask inserts task, participating in any transaction attached to ctx
// via WithTx.
func (s *QueueStorage) CreateTask(ctx context.Context, task *queue.Task) error {
	const q = `
		INSERT INTO tasks (
			id, queue, task_type, task_name, payload, status, priority,
			retry_count, max_retries, scheduled_at, timeout_millis, metadata, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	_, err := s.q(ctx).Exec(ctx, q,
		task.ID, task.Queue, task.TaskType, task.TaskName, task.Payload,
		task.Status, task.Priority, task.RetryCount, task.MaxRetries,
		task.ScheduledAt, task.TimeoutMillis, task.Metadata, task.CreatedAt,
	)
	return err
}

// ClaimTask atomically claims the highest-priority eligible task from one
// of queues, locking it for lockDuration. Uses SKIP LOCKED so concurrent
// workers never contend on the same row.
func (s *QueueStorage) ClaimTask(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*queue.Task, error) {
	if len(queues) == 0 {
		return nil, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const selectQ = `
		SELECT id, queue, task_type, task_name, payload, status, priority,
		       retry_count, max_retries, scheduled_at, error, metadata,
		       timeout_millis, created_at
		FROM tasks
		WHERE status IN ('pending', 'scheduled')
		  AND queue = ANY($1)
		  AND scheduled_at <= now()
		ORDER BY priority DESC, scheduled_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED`

	row := tx.QueryRow(ctx, selectQ, queues)

	var t queue.Task
	var errMsg *string
	var metadata map[string]string
	if err := row.Scan(
		&t.ID, &t.Queue, &t.TaskType, &t.TaskName, &t.Payload, &t.Status,
		&t.Priority, &t.RetryCount, &t.MaxRetries, &t.ScheduledAt, &errMsg,
		&metadata, &t.TimeoutMillis, &t.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.Error = errMsg
	t.Metadata = metadata

	now := time.Now()
	lockedUntil := now.Add(lockDuration)
	const updateQ = `
		UPDATE tasks
		SET status = 'processing', locked_until = $1, locked_by = $2,
		    worker_id = $2, started_at = $3
		WHERE id = $4`
	if _, err := tx.Exec(ctx, updateQ, lockedUntil, workerID, now, t.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	t.Status = queue.TaskStatusProcessing
	t.LockedUntil = &lockedUntil
	t.LockedBy = &workerID
	t.WorkerID = &workerID
	t.StartedAt = &now
	return &t, nil
}

// CompleteTask marks taskID completed and releases its lock.
func (s *QueueStorage) CompleteTask(ctx context.Context, taskID uuid.UUID) error {
	const q = `
		UPDATE tasks
		SET status = 'completed', processed_at = now(), completed_at = now(),
		    locked_until = NULL, locked_by = NULL, worker_id = NULL
		WHERE id = $1 AND status = 'processing'`
	tag, err := s.q(ctx).Exec(ctx, q, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s is not in processing state", taskID)
	}
	return nil
}

// FailTask increments taskID's retry count and releases its lock,
// transitioning to failed if max_retries is exhausted, else back to
// pending for a later retry.
func (s *QueueStorage) FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error {
	const q = `
		UPDATE tasks
		SET retry_count = retry_count + 1,
		    error = $2,
		    locked_until = NULL, locked_by = NULL, worker_id = NULL,
		    status = CASE WHEN retry_count + 1 >= max_retries THEN 'failed' ELSE 'pending' END,
		    completed_at = CASE WHEN retry_count + 1 >= max_retries THEN now() ELSE completed_at END
		WHERE id = $1 AND status = 'processing'`
	tag, err := s.q(ctx).Exec(ctx, q, taskID, errorMsg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s is not in processing state", taskID)
	}
	return nil
}

// MoveToDLQ copies taskID into tasks_dlq and removes it from the active table.
func (s *QueueStorage) MoveToDLQ(ctx context.Context, taskID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertQ = `
		INSERT INTO tasks_dlq (id, task_id, queue, task_type, task_name, payload, priority, error, retry_count, failed_at, created_at)
		SELECT gen_random_uuid(), id, queue, task_type, task_name, payload, priority, coalesce(error, ''), retry_count, now(), now()
		FROM tasks WHERE id = $1`
	if _, err := tx.Exec(ctx, insertQ, taskID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ExtendLock pushes taskID's lock deadline forward by duration.
func (s *QueueStorage) ExtendLock(ctx context.Context, taskID uuid.UUID, duration time.Duration) error {
	const q = `UPDATE tasks SET locked_until = now() + make_interval(secs => $2) WHERE id = $1 AND status = 'processing'`
	tag, err := s.q(ctx).Exec(ctx, q, taskID, duration.Seconds())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s is not in processing state", taskID)
	}
	return nil
}

// ReleaseStale reclaims tasks that have been processing for longer than
// olderThan, returning them to pending for another worker to claim.
func (s *QueueStorage) ReleaseStale(ctx context.Context, olderThan time.Duration) (int, error) {
	const q = `
		UPDATE tasks
		SET status = 'pending', locked_until = NULL, locked_by = NULL, worker_id = NULL
		WHERE status = 'processing' AND started_at < now() - make_interval(secs => $1)`
	tag, err := s.q(ctx).Exec(ctx, q, olderThan.Seconds())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// GetPendingTaskByName returns the first pending task named taskName, or
// nil if none exists, for scheduler idempotency checks.
func (s *QueueStorage) GetPendingTaskByName(ctx context.Context, taskName string) (*queue.Task, error) {
	const q = `
		SELECT id, queue, task_type, task_name, payload, status, priority,
		       retry_count, max_retries, scheduled_at, timeout_millis, created_at
		FROM tasks
		WHERE status = 'pending' AND task_name = $1
		LIMIT 1`
	row := s.q(ctx).QueryRow(ctx, q, taskName)

	var t queue.Task
	if err := row.Scan(
		&t.ID, &t.Queue, &t.TaskType, &t.TaskName, &t.Payload, &t.Status,
		&t.Priority, &t.RetryCount, &t.MaxRetries, &t.ScheduledAt,
		&t.TimeoutMillis, &t.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
