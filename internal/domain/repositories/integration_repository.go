package repositories

import (
	"context"

	"social-publisher/internal/domain/dto"
)

// IntegrationRepository resolves credentials. LookupActive returns only the
// active integrations among ids that belong to ownerID.
type IntegrationRepository interface {
	LookupActive(ctx context.Context, ownerID string, ids []string) ([]dto.Integration, error)
}
