package usecases

import (
	"context"
	"time"

	"social-publisher/internal/domain/repositories"
	"social-publisher/pkg/errors"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type CleanupService interface {
	// CleanupStale deletes normalized images older than the configured age.
	CleanupStale(ctx context.Context) (int, error)
	// Schedule registers CleanupStale on c under the given cron spec.
	Schedule(c *cron.Cron, spec string) (cron.EntryID, error)
}

type cleanupService struct {
	storage repositories.ObjectStorage
	prefix  string
	maxAge  time.Duration
	log     *zap.Logger
}

func NewCleanupService(storage repositories.ObjectStorage, prefix string, maxAge time.Duration, log *zap.Logger) CleanupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &cleanupService{
		storage: storage,
		prefix:  prefix,
		maxAge:  maxAge,
		log:     log,
	}
}

func (s *cleanupService) CleanupStale(ctx context.Context) (int, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	removed, err := s.storage.DeleteOlderThan(ctx, s.prefix, s.maxAge)
	if err != nil {
		return removed, errors.ErrStorage(err)
	}
	if removed > 0 {
		s.log.Info("stale normalized images removed",
			zap.String("prefix", s.prefix),
			zap.Int("count", removed),
			zap.Duration("max_age", s.maxAge))
	}
	return removed, nil
}

func (s *cleanupService) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.CleanupStale(ctx); err != nil {
			s.log.Error("cleanup of normalized images failed", zap.Error(err))
		}
	})
}
