package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"social-publisher/internal/domain/dto"
	"social-publisher/internal/domain/repositories"

	"go.uber.org/zap"
)

// JobHandler runs one dequeued job to completion.
type JobHandler func(ctx context.Context, job dto.PublishJob)

type Worker struct {
	ID          int
	Queue       repositories.JobQueue
	Handle      JobHandler
	Wg          *sync.WaitGroup
	PollTimeout time.Duration
	RetryDelay  time.Duration
	Log         *zap.Logger
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer w.Wg.Done()
		log := w.Log.With(zap.Int("worker", w.ID))
		for {
			if ctx.Err() != nil {
				log.Info("worker stopping")
				return
			}

			job, err := w.Queue.Dequeue(ctx, w.PollTimeout)
			if err != nil {
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					log.Info("worker stopping")
					return
				}
				log.Warn("dequeue failed", zap.Error(err))
				select {
				case <-time.After(w.RetryDelay):
				case <-ctx.Done():
				}
				continue
			}
			if job == nil {
				continue
			}

			log.Info("processing publish job", zap.String("job_id", job.JobID), zap.String("batch_key", job.BatchKey))
			// A dequeued job runs to completion even during shutdown.
			w.Handle(context.WithoutCancel(ctx), *job)
		}
	}()
}
