package queue

import (
	"context"
	"sync"
	"time"

	"social-publisher/internal/domain/repositories"

	"go.uber.org/zap"
)

type WorkerPool struct {
	wg     sync.WaitGroup
	ctx    context.Context    //graceful shutdown
	cancel context.CancelFunc //graceful shutdown
}

// NewWorkerPool starts workerCount workers pulling from q.
func NewWorkerPool(workerCount int, q repositories.JobQueue, handle JobHandler, log *zap.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workerCount; i++ {
		worker := &Worker{
			ID:          i,
			Queue:       q,
			Handle:      handle,
			Wg:          &pool.wg,
			PollTimeout: 5 * time.Second,
			RetryDelay:  time.Second,
			Log:         log,
		}
		pool.wg.Add(1)
		worker.Start(pool.ctx)
	}
	return pool
}

// Shutdown stops taking new jobs and waits for running ones.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
