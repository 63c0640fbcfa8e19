package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
)

// SlotRepository хранилище мест в памяти процесса
// Повторяет контракт slot.Repository, включая условное обновление и ошибки
type SlotRepository struct {
	mu    sync.RWMutex
	slots map[string]*domain.Slot
}

// NewSlotRepository создает пустое хранилище мест
func NewSlotRepository() *SlotRepository {
	return &SlotRepository{slots: make(map[string]*domain.Slot)}
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[slot.SlotNumber]; ok {
		return nil, fmt.Errorf("%w: %s", slotRepo.ErrDuplicateSlot, slot.SlotNumber)
	}
	r.slots[slot.SlotNumber] = slot.Clone()

	return slot, nil
}

// Replace заменяет все места новым набором под одной блокировкой
// При повторе номера в наборе хранилище не меняется
func (r *SlotRepository) Replace(ctx context.Context, slots []*domain.Slot) (deleted int64, created int64, err error) {
	next := make(map[string]*domain.Slot, len(slots))
	for _, slot := range slots {
		if _, repeated := next[slot.SlotNumber]; repeated {
			return 0, 0, fmt.Errorf("%w: %s", slotRepo.ErrDuplicateSlot, slot.SlotNumber)
		}
		next[slot.SlotNumber] = slot.Clone()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	deleted = int64(len(r.slots))
	r.slots = next

	return deleted, int64(len(next)), nil
}

func (r *SlotRepository) GetBySlotNumber(ctx context.Context, slotNumber string) (*domain.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.slots[slotNumber]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}

	return slot.Clone(), nil
}

func (r *SlotRepository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Slot, 0, len(r.slots))
	for _, slot := range r.slots {
		if filter.Matches(slot) {
			result = append(result, slot.Clone())
		}
	}

	// Тот же порядок, что и в PostgreSQL: PARKING2 раньше PARKING10
	slices.SortFunc(result, func(a, b *domain.Slot) int {
		if c := cmp.Compare(len(a.SlotNumber), len(b.SlotNumber)); c != 0 {
			return c
		}
		return cmp.Compare(a.SlotNumber, b.SlotNumber)
	})

	return result, nil
}

func (r *SlotRepository) ListAwaitingOccupancy(ctx context.Context) ([]*domain.Slot, error) {
	booked, notOccupied := true, false
	return r.List(ctx, domain.SlotFilter{IsBooked: &booked, IsOccupied: &notOccupied})
}

func (r *SlotRepository) CountStats(ctx context.Context) (booked int, total int, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, slot := range r.slots {
		if slot.IsBooked {
			booked++
		}
	}

	return booked, len(r.slots), nil
}

func (r *SlotRepository) UpdateIfState(ctx context.Context, slot *domain.Slot, expected domain.SlotState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.slots[slot.SlotNumber]
	if !ok || current.State() != expected {
		return slotRepo.ErrStateConflict
	}
	r.slots[slot.SlotNumber] = slot.Clone()

	return nil
}

func (r *SlotRepository) Delete(ctx context.Context, slotNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[slotNumber]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	delete(r.slots, slotNumber)

	return nil
}
