package repositories

import (
	"context"
	"fmt"
	"sync"

	"social-publisher/internal/domain/dto"
	"social-publisher/internal/domain/entities"
	"social-publisher/internal/domain/repositories"

	"gorm.io/gorm"
)

type publishLogRepository struct {
	db *gorm.DB
}

func NewPublishLogRepository(db *gorm.DB) repositories.PublishLogRepository {
	return &publishLogRepository{
		db: db,
	}
}

func (r *publishLogRepository) Record(ctx context.Context, batchKey, ownerID string, outcomes []dto.PublishOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	rows := toPublishLogs(batchKey, ownerID, outcomes)
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("publish logs could not be saved: %w", err)
	}
	return nil
}

func toPublishLogs(batchKey, ownerID string, outcomes []dto.PublishOutcome) []entities.PublishLog {
	rows := make([]entities.PublishLog, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, entities.PublishLog{
			BatchKey:      batchKey,
			OwnerID:       ownerID,
			DestinationID: o.DestinationID,
			Kind:          o.Kind.String(),
			Success:       o.Success,
			PostID:        o.PostID,
			ErrorCode:     o.ErrorCode,
			ErrorMessage:  o.Error,
		})
	}
	return rows
}

type InMemoryPublishLogRepository struct {
	mu   sync.Mutex
	Logs []entities.PublishLog
}

func NewInMemoryPublishLogRepository() *InMemoryPublishLogRepository {
	return &InMemoryPublishLogRepository{}
}

func (r *InMemoryPublishLogRepository) Record(ctx context.Context, batchKey, ownerID string, outcomes []dto.PublishOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Logs = append(r.Logs, toPublishLogs(batchKey, ownerID, outcomes)...)
	return nil
}
