package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"stockscout/db"
	"stockscout/internal/model"
)

const MaxAttempts = 3

var (
	// ErrNoJob is returned by Dequeue when the wait timed out.
	ErrNoJob = errors.New("no job")

	ErrMalformedJob = errors.New("malformed job")
)

// Queue is the Redis list of pending research jobs plus its dead-letter list.
type Queue struct {
	client *redis.Client
	now    func() time.Time
}

func NewQueue(client *redis.Client) *Queue {
	return &Queue{client: client, now: time.Now}
}

// Enqueue assigns an id when the job has none and pushes it.
func (q *Queue) Enqueue(ctx context.Context, job *model.ResearchJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.EnqueuedAt = q.now()
	return q.push(ctx, db.ResearchQueueKey, job)
}

func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*model.ResearchJob, error) {
	data, err := db.PopFromQueue(ctx, q.client, db.ResearchQueueKey, timeout)
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoJob
	}
	if err != nil {
		return nil, err
	}

	var job model.ResearchJob
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedJob, err)
	}
	return &job, nil
}

// Retry puts a failed job back on the queue, or on the dead-letter list once
// it has used MaxAttempts. It reports whether the job was re-queued.
func (q *Queue) Retry(ctx context.Context, job *model.ResearchJob) (bool, error) {
	job.Attempts++
	if job.Attempts >= MaxAttempts {
		return false, q.push(ctx, db.DeadLetterKey, job)
	}
	return true, q.push(ctx, db.ResearchQueueKey, job)
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return db.GetQueueLength(ctx, q.client, db.ResearchQueueKey)
}

func (q *Queue) push(ctx context.Context, key string, job *model.ResearchJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return db.PushToQueue(ctx, q.client, key, string(data))
}
