package memory

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ActivityRepository журнал действий в памяти процесса
type ActivityRepository struct {
	mu      sync.RWMutex
	entries []domain.ActivityLog
	nextID  int64
}

// NewActivityRepository создает пустой журнал
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{nextID: 1}
}

func (r *ActivityRepository) Create(ctx context.Context, entry *domain.ActivityLog) (*domain.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, *entry)

	return entry, nil
}

// List возвращает записи новые первыми
func (r *ActivityRepository) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.ActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.ActivityLog, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if filter.SlotNumber != nil && entry.SlotNumber != *filter.SlotNumber {
			continue
		}
		if filter.ActivityType != nil && entry.ActivityType != *filter.ActivityType {
			continue
		}
		if filter.UserID != nil && entry.UserID != *filter.UserID {
			continue
		}
		result = append(result, &entry)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}

	return result, nil
}

func (r *ActivityRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := int64(len(r.entries))
	r.entries = nil

	return deleted, nil
}
