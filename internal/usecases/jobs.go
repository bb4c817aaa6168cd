package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"social-publisher/internal/domain/dto"
	"social-publisher/internal/domain/repositories"
	"social-publisher/internal/infrastructure/queue"
	consts "social-publisher/pkg/constants"
	"social-publisher/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobService runs publish batches asynchronously through a JobQueue.
type JobService interface {
	Submit(ctx context.Context, job dto.PublishJob) (dto.PublishJobResult, error)
	// Status returns the job's result when it belongs to ownerID.
	Status(ctx context.Context, ownerID, jobID string) (*dto.PublishJobResult, error)
	Process(ctx context.Context, job dto.PublishJob) dto.PublishJobResult
}

type jobService struct {
	queue     repositories.JobQueue
	publisher PublisherService
	log       *zap.Logger
}

func NewJobService(q repositories.JobQueue, publisher PublisherService, log *zap.Logger) JobService {
	if log == nil {
		log = zap.NewNop()
	}
	return &jobService{
		queue:     q,
		publisher: publisher,
		log:       log,
	}
}

// Submit validates and queues job, assigning its id and a default batch key.
func (s *jobService) Submit(ctx context.Context, job dto.PublishJob) (dto.PublishJobResult, error) {
	if len(job.Destinations) == 0 {
		return dto.PublishJobResult{}, errors.ErrInvalidRequest("at least one destination is required")
	}
	if len(job.Media) > 0 && len(job.HostedURLs) > 0 {
		return dto.PublishJobResult{}, errors.ErrInvalidRequest("media and urls cannot be combined")
	}
	if _, err := dto.ToMediaItems(job.Media); err != nil {
		return dto.PublishJobResult{}, errors.ErrInvalidRequest(err.Error())
	}

	job.JobID = uuid.NewString()
	if job.BatchKey == "" {
		job.BatchKey = job.JobID
	}

	queued := dto.PublishJobResult{JobID: job.JobID, OwnerID: job.OwnerID, Status: consts.StatusQueued}
	if err := s.queue.SaveResult(ctx, queued); err != nil {
		return dto.PublishJobResult{}, errors.ErrQueue(err)
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.save(ctx, s.log.With(zap.String("job_id", job.JobID)), dto.PublishJobResult{
			JobID:   job.JobID,
			OwnerID: job.OwnerID,
			Status:  consts.StatusFailed,
			Error:   "job could not be queued",
		})
		return dto.PublishJobResult{}, errors.ErrQueue(err)
	}

	s.log.Info("publish job queued",
		zap.String("job_id", job.JobID),
		zap.String("batch_key", job.BatchKey),
		zap.Int("destinations", len(job.Destinations)))
	return queued, nil
}

func (s *jobService) Status(ctx context.Context, ownerID, jobID string) (*dto.PublishJobResult, error) {
	result, err := s.queue.Result(ctx, jobID)
	if stderrors.Is(err, queue.ErrResultNotFound) {
		return nil, errors.ErrNotFound(fmt.Errorf("job %s: %w", jobID, err))
	}
	if err != nil {
		return nil, errors.ErrQueue(err)
	}
	// Another owner's job reads as missing.
	if result.OwnerID != ownerID {
		return nil, errors.ErrNotFound(fmt.Errorf("job %s: %w", jobID, queue.ErrResultNotFound))
	}
	return result, nil
}

// Process runs one dequeued job and stores its final result.
func (s *jobService) Process(ctx context.Context, job dto.PublishJob) dto.PublishJobResult {
	log := s.log.With(zap.String("job_id", job.JobID))

	s.save(ctx, log, dto.PublishJobResult{JobID: job.JobID, OwnerID: job.OwnerID, Status: consts.StatusInProgress})

	var outcomes []dto.PublishOutcome
	var err error
	if len(job.HostedURLs) > 0 {
		outcomes, err = s.publisher.PublishHostedBatch(ctx, job.OwnerID, job.BatchKey, job.Destinations, job.Caption, job.HostedURLs)
	} else {
		var media []dto.MediaItem
		media, err = dto.ToMediaItems(job.Media)
		if err != nil {
			err = errors.ErrInvalidRequest(err.Error())
		} else {
			outcomes, err = s.publisher.PublishBatch(ctx, job.OwnerID, job.BatchKey, job.Destinations, job.Caption, media)
		}
	}

	result := dto.PublishJobResult{JobID: job.JobID, OwnerID: job.OwnerID}
	if err != nil {
		result.Status = consts.StatusFailed
		result.Error = errors.Message(err)
		log.Error("publish job failed", zap.Error(err))
	} else {
		result.Status = consts.StatusCompleted
		result.Outcomes = outcomes
		result.Summary = Summary(outcomes)
		log.Info("publish job completed", zap.String("summary", result.Summary))
	}

	s.save(ctx, log, result)
	return result
}

func (s *jobService) save(ctx context.Context, log *zap.Logger, result dto.PublishJobResult) {
	if err := s.queue.SaveResult(ctx, result); err != nil {
		log.Warn("job result not saved", zap.String("status", result.Status), zap.Error(err))
	}
}
