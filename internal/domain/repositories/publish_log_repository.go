package repositories

import (
	"context"

	"social-publisher/internal/domain/dto"
)

type PublishLogRepository interface {
	Record(ctx context.Context, batchKey, ownerID string, outcomes []dto.PublishOutcome) error
}
