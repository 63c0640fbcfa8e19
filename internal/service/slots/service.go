package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
)

// maxConflictRetries сколько раз перечитывать место после проигранного условного обновления
const maxConflictRetries = 3

// Service реестр парковочных мест
// Каждый переход состояния выполняется как чтение, проверка правил и условное
// обновление по ожидаемому состоянию, поэтому из двух параллельных запросов
// на одно место выигрывает ровно один
type Service struct {
	slotRepo     SlotRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр реестра мест
func NewService(
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:     slotRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Create создает новое место
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Create: slot=%s, type=%s, reserved=%t", req.SlotNumber, req.SlotType, req.IsReserved)

	slotNumber := strings.TrimSpace(req.SlotNumber)
	if slotNumber == "" || len(slotNumber) > domain.MaxSlotNumberLength {
		s.logger.Warn("Create: invalid slot number %q", req.SlotNumber)
		return nil, fmt.Errorf("%w: slot number must be 1..%d characters", ErrInvalidInput, domain.MaxSlotNumberLength)
	}

	slotType, err := models.ToDomainSlotType(req.SlotType)
	if err != nil {
		s.logger.Warn("Create: invalid slot type %q for slot=%s", req.SlotType, slotNumber)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slot := &domain.Slot{
		SlotNumber: slotNumber,
		SlotType:   slotType,
		IsReserved: req.IsReserved,
		UpdatedAt:  s.timeProvider.Now(),
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		if errors.Is(err, slotRepo.ErrDuplicateSlot) {
			s.logger.Warn("Create: slot=%s already exists", slotNumber)
			return nil, ErrDuplicateSlot
		}
		s.logger.Error("Create: repository error for slot=%s: %v", slotNumber, err)
		return nil, fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created slot=%s", slotNumber)
	return models.FromDomainSlot(created), nil
}

// Get получает место по номеру
func (s *Service) Get(ctx context.Context, slotNumber string) (*models.SlotResponse, error) {
	slot, err := s.get(ctx, "Get", slotNumber)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot), nil
}

// List получает места по фильтру
func (s *Service) List(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	slots, err := s.slotRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainSlotList(slots), nil
}

// IsAvailable проверяет, что место свободно (не забронировано)
func (s *Service) IsAvailable(ctx context.Context, slotNumber string) (bool, error) {
	slot, err := s.get(ctx, "IsAvailable", slotNumber)
	if err != nil {
		return false, err
	}
	return slot.IsFree(), nil
}

// Book бронирует место за пользователем
// Резервированные места доступны только людям с ограниченной мобильностью
func (s *Service) Book(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error) {
	s.logger.Info("Book: slot=%s, user=%s", slotNumber, actor.ID)

	slot, err := s.transition(ctx, "Book", slotNumber, func(slot *domain.Slot) error {
		if !slot.CanBeBookedBy(actor) {
			return ErrReservedSlot
		}
		if !slot.IsFree() {
			return ErrNotAvailable
		}
		slot.MarkBooked(actor, s.timeProvider.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Book: slot=%s booked by user=%s", slotNumber, actor.ID)
	return models.FromDomainSlot(slot), nil
}

// IsBookedBySameUser проверяет, что место забронировано этим пользователем и ещё не занято
func (s *Service) IsBookedBySameUser(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error) {
	slot, err := s.get(ctx, "IsBookedBySameUser", slotNumber)
	if err != nil {
		return nil, err
	}
	if err := checkBookedBy(slot, actor); err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot), nil
}

// Occupy занимает место, забронированное этим же пользователем
func (s *Service) Occupy(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error) {
	s.logger.Info("Occupy: slot=%s, user=%s", slotNumber, actor.ID)

	slot, err := s.transition(ctx, "Occupy", slotNumber, func(slot *domain.Slot) error {
		if err := checkBookedBy(slot, actor); err != nil {
			return err
		}
		slot.MarkOccupied(actor, s.timeProvider.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Occupy: slot=%s occupied by user=%s", slotNumber, actor.ID)
	return models.FromDomainSlot(slot), nil
}

// IsOccupiedBySameUser проверяет, что место занято этим пользователем
func (s *Service) IsOccupiedBySameUser(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error) {
	slot, err := s.get(ctx, "IsOccupiedBySameUser", slotNumber)
	if err != nil {
		return nil, err
	}
	if !slot.IsOccupiedBy(actor.ID) {
		return nil, ErrNotYourOccupancy
	}
	return models.FromDomainSlot(slot), nil
}

// Vacant освобождает место, занятое этим пользователем
func (s *Service) Vacant(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error) {
	s.logger.Info("Vacant: slot=%s, user=%s", slotNumber, actor.ID)

	slot, err := s.transition(ctx, "Vacant", slotNumber, func(slot *domain.Slot) error {
		if !slot.IsOccupiedBy(actor.ID) {
			return ErrNotYourOccupancy
		}
		slot.Clear(s.timeProvider.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Vacant: slot=%s vacated by user=%s", slotNumber, actor.ID)
	return models.FromDomainSlot(slot), nil
}

// Cancel отменяет бронирование до занятия места
// Отменить может сам забронировавший пользователь или администратор
func (s *Service) Cancel(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error) {
	s.logger.Info("Cancel: slot=%s, user=%s, admin=%t", slotNumber, actor.ID, actor.IsAdmin)

	slot, err := s.transition(ctx, "Cancel", slotNumber, func(slot *domain.Slot) error {
		if slot.IsOccupied {
			return ErrAlreadyOccupied
		}
		if !slot.IsBooked || (!actor.IsAdmin && !slot.IsBookedBy(actor.ID)) {
			return ErrNotBooked
		}
		slot.Clear(s.timeProvider.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: slot=%s booking cancelled by user=%s", slotNumber, actor.ID)
	return models.FromDomainSlot(slot), nil
}

// Update административно изменяет место
// Флаги бронирования и занятости можно только сбросить
func (s *Service) Update(ctx context.Context, slotNumber string, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Update: slot=%s", slotNumber)

	patch, err := req.ToDomainPatch()
	if err != nil {
		s.logger.Warn("Update: invalid patch for slot=%s: %v", slotNumber, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if patch.IsEmpty() {
		s.logger.Warn("Update: empty patch for slot=%s", slotNumber)
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if (patch.IsBooked != nil && *patch.IsBooked) || (patch.IsOccupied != nil && *patch.IsOccupied) {
		s.logger.Warn("Update: attempt to set lifecycle flags on slot=%s", slotNumber)
		return nil, fmt.Errorf("%w: use book/occupy to set lifecycle flags", ErrInvalidInput)
	}

	slot, err := s.transition(ctx, "Update", slotNumber, func(slot *domain.Slot) error {
		patch.Apply(slot, s.timeProvider.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated slot=%s", slotNumber)
	return models.FromDomainSlot(slot), nil
}

// Delete удаляет место
func (s *Service) Delete(ctx context.Context, slotNumber string) error {
	s.logger.Info("Delete: slot=%s", slotNumber)

	if err := s.slotRepo.Delete(ctx, slotNumber); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("Delete: slot=%s not found", slotNumber)
			return ErrSlotNotFound
		}
		s.logger.Error("Delete: repository error for slot=%s: %v", slotNumber, err)
		return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted slot=%s", slotNumber)
	return nil
}

// Occupancy возвращает количество забронированных мест и процент загрузки
func (s *Service) Occupancy(ctx context.Context) (*models.OccupancyResponse, error) {
	booked, total, err := s.slotRepo.CountStats(ctx)
	if err != nil {
		s.logger.Error("Occupancy: repository error: %v", err)
		return nil, fmt.Errorf("%w: Occupancy - repository error: %w", ErrInternal, err)
	}

	return &models.OccupancyResponse{
		Booked: booked,
		Total:  total,
		Ratio:  domain.OccupancyRatio(booked, total),
	}, nil
}

// OccupancyRatio процент забронированных мест, 100 если забронированных нет
func (s *Service) OccupancyRatio(ctx context.Context) (float64, error) {
	occupancy, err := s.Occupancy(ctx)
	if err != nil {
		return 0, err
	}
	return occupancy.Ratio, nil
}

// ListPendingExpiry получает забронированные, но не занятые места
func (s *Service) ListPendingExpiry(ctx context.Context) (*models.SlotListResponse, error) {
	slots, err := s.slotRepo.ListAwaitingOccupancy(ctx)
	if err != nil {
		s.logger.Error("ListPendingExpiry: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListPendingExpiry - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainSlotList(slots), nil
}

// ExpireIfDue снимает бронь, если место всё ещё забронировано, не занято и срок
// ожидания истёк к моменту now. Проверка и сброс выполняются атомарно,
// поэтому место, занятое в промежутке, не будет освобождено
func (s *Service) ExpireIfDue(ctx context.Context, slotNumber string, wait time.Duration, now time.Time) (bool, *models.SlotResponse, error) {
	slot, err := s.transition(ctx, "ExpireIfDue", slotNumber, func(slot *domain.Slot) error {
		if !slot.IsExpired(now, wait) {
			return errNotDue
		}
		slot.Clear(now)
		return nil
	})
	if errors.Is(err, errNotDue) || errors.Is(err, ErrSlotNotFound) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}

	return true, models.FromDomainSlot(slot), nil
}

// Seed заменяет все места на prefix1..prefixN, первые reserved из них резервированные
func (s *Service) Seed(ctx context.Context, req *models.SeedRequest) (*models.SeedResponse, error) {
	s.logger.Info("Seed: total=%d, reserved=%d, prefix=%s", req.Total, req.Reserved, req.Prefix)

	if req.Total <= 0 || req.Reserved < 0 || req.Reserved > req.Total || strings.TrimSpace(req.Prefix) == "" {
		s.logger.Warn("Seed: invalid request total=%d reserved=%d prefix=%q", req.Total, req.Reserved, req.Prefix)
		return nil, fmt.Errorf("%w: need total > 0, 0 <= reserved <= total and a prefix", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	batch := make([]*domain.Slot, 0, req.Total)
	for i := 1; i <= req.Total; i++ {
		batch = append(batch, &domain.Slot{
			SlotNumber: fmt.Sprintf("%s%d", req.Prefix, i),
			SlotType:   domain.DefaultSlotType,
			IsReserved: i <= req.Reserved,
			UpdatedAt:  now,
		})
	}

	var deleted, created int64
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var err error
		deleted, created, err = s.slotRepo.Replace(ctx, batch)
		return err
	})
	if err != nil {
		s.logger.Error("Seed: failed to seed slots: %v", err)
		return nil, fmt.Errorf("%w: Seed - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Seed: removed %d existing slots, created %d", deleted, created)
	return &models.SeedResponse{Created: created, Reserved: req.Reserved}, nil
}

// Вспомогательные методы

func (s *Service) get(ctx context.Context, op, slotNumber string) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetBySlotNumber(ctx, slotNumber)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot=%s not found", op, slotNumber)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: repository error for slot=%s: %v", op, slotNumber, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return slot, nil
}

// transition читает место, применяет к нему apply и сохраняет результат
// условным обновлением по состоянию, прочитанному в начале
// Если место успели изменить, чтение и проверка повторяются
func (s *Service) transition(ctx context.Context, op, slotNumber string, apply func(slot *domain.Slot) error) (*domain.Slot, error) {
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		var updated *domain.Slot

		err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
			slot, err := s.slotRepo.GetBySlotNumber(ctx, slotNumber)
			if err != nil {
				return err
			}

			expected := slot.State()
			if err := apply(slot); err != nil {
				return err
			}
			if err := slot.Validate(); err != nil {
				return err
			}
			if err := s.slotRepo.UpdateIfState(ctx, slot, expected); err != nil {
				return err
			}

			updated = slot
			return nil
		})

		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, slotRepo.ErrStateConflict):
			s.logger.Warn("%s: slot=%s changed concurrently, attempt %d/%d", op, slotNumber, attempt, maxConflictRetries)
			continue
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("%s: slot=%s not found", op, slotNumber)
			return nil, ErrSlotNotFound
		case isBusinessError(err):
			return nil, err
		default:
			s.logger.Error("%s: failed to update slot=%s: %v", op, slotNumber, err)
			return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
		}
	}

	s.logger.Error("%s: slot=%s kept changing, giving up after %d attempts", op, slotNumber, maxConflictRetries)
	return nil, ErrConcurrentUpdate
}

// checkBookedBy место забронировано этим пользователем и ещё не занято
func checkBookedBy(slot *domain.Slot, actor domain.Actor) error {
	if slot.IsOccupied {
		return ErrAlreadyOccupied
	}
	if !slot.IsBookedBy(actor.ID) {
		return ErrNotBooked
	}
	return nil
}
