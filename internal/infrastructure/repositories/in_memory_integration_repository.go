package repositories

import (
	"context"
	"sync"

	"social-publisher/internal/domain/dto"
)

type InMemoryIntegrationRepository struct {
	mu      sync.RWMutex
	data    map[string]dto.Integration
	lookups [][]string
}

func NewInMemoryIntegrationRepository(items ...dto.Integration) *InMemoryIntegrationRepository {
	r := &InMemoryIntegrationRepository{
		data: make(map[string]dto.Integration),
	}
	for _, item := range items {
		r.data[item.ID] = item
	}
	return r
}

func (r *InMemoryIntegrationRepository) Save(item dto.Integration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[item.ID] = item
}

func (r *InMemoryIntegrationRepository) LookupActive(ctx context.Context, ownerID string, ids []string) ([]dto.Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups = append(r.lookups, append([]string(nil), ids...))

	result := make([]dto.Integration, 0, len(ids))
	for _, id := range ids {
		item, ok := r.data[id]
		if !ok || !item.Active {
			continue
		}
		if item.OwnerID != ownerID {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

// Lookups returns the id lists passed to LookupActive, in call order.
func (r *InMemoryIntegrationRepository) Lookups() [][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([][]string(nil), r.lookups...)
}
