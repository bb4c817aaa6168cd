package repositories

import (
	"context"
	"time"

	"social-publisher/internal/domain/dto"
)

// JobQueue carries publish jobs to workers and keeps their latest result.
// Dequeue returns a nil job when nothing arrived within timeout.
type JobQueue interface {
	Enqueue(ctx context.Context, job dto.PublishJob) error
	Dequeue(ctx context.Context, timeout time.Duration) (*dto.PublishJob, error)
	SaveResult(ctx context.Context, result dto.PublishJobResult) error
	Result(ctx context.Context, jobID string) (*dto.PublishJobResult, error)
}
