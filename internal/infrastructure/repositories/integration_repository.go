package repositories

import (
	"context"
	"fmt"

	"social-publisher/internal/domain/dto"
	"social-publisher/internal/domain/entities"
	"social-publisher/internal/domain/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type integrationRepository struct {
	db *gorm.DB
}

func NewIntegrationRepository(db *gorm.DB) repositories.IntegrationRepository {
	return &integrationRepository{
		db: db,
	}
}

// LookupActive loads every active integration of ownerID among ids in one
// query. Ids that are not UUIDs cannot match and are skipped.
func (r *integrationRepository) LookupActive(ctx context.Context, ownerID string, ids []string) ([]dto.Integration, error) {
	keys := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if parsed, err := uuid.Parse(id); err == nil {
			keys = append(keys, parsed)
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	var rows []entities.Integration
	err := r.db.WithContext(ctx).
		Where("id IN ? AND owner_id = ? AND active = ?", keys, ownerID, true).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("integrations could not be loaded: %w", err)
	}

	out := make([]dto.Integration, 0, len(rows))
	for _, row := range rows {
		out = append(out, toIntegrationDTO(row))
	}
	return out, nil
}

func toIntegrationDTO(e entities.Integration) dto.Integration {
	return dto.Integration{
		ID:                 e.ID.String(),
		OwnerID:            e.OwnerID,
		InstagramAccountID: e.InstagramAccountID,
		FacebookPageID:     e.FacebookPageID,
		AccessToken:        e.AccessToken,
		Active:             e.Active,
	}
}
