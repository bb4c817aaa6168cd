package queue

import (
	"context"
	"sync"
	"time"

	"social-publisher/internal/domain/dto"
	"social-publisher/internal/domain/repositories"
)

// MemoryQueue is an in-process JobQueue backed by a buffered channel.
type MemoryQueue struct {
	jobs    chan dto.PublishJob
	mu      sync.RWMutex
	results map[string]dto.PublishJobResult
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size < 1 {
		size = 100
	}
	return &MemoryQueue{
		jobs:    make(chan dto.PublishJob, size),
		results: make(map[string]dto.PublishJobResult),
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, job dto.PublishJob) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (*dto.PublishJob, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case job := <-q.jobs:
		return &job, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryQueue) SaveResult(ctx context.Context, result dto.PublishJobResult) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.results[result.JobID] = result
	return nil
}

func (q *MemoryQueue) Result(ctx context.Context, jobID string) (*dto.PublishJobResult, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	result, ok := q.results[jobID]
	if !ok {
		return nil, ErrResultNotFound
	}
	return &result, nil
}

// Len reports the number of jobs waiting.
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}

var _ repositories.JobQueue = (*MemoryQueue)(nil)
