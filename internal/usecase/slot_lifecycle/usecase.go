package slot_lifecycle

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
)

// UseCase обработка запроса к местам: очистка просроченных броней,
// затем операция реестра, затем запись в журнал
// Ошибки реестра возвращаются без изменений
type UseCase struct {
	slots    SlotRegistry
	sweeper  Sweeper
	recorder ActivityRecorder
	policy   domain.WaitPolicy
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slots SlotRegistry,
	sweeper Sweeper,
	recorder ActivityRecorder,
	policy domain.WaitPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		slots:    slots,
		sweeper:  sweeper,
		recorder: recorder,
		policy:   policy,
		logger:   logger,
	}
}

// List список мест по фильтру
func (uc *UseCase) List(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	uc.sweep(ctx, "List")
	return uc.slots.List(ctx, req)
}

// Get место по номеру
func (uc *UseCase) Get(ctx context.Context, slotNumber string) (*models.SlotResponse, error) {
	uc.sweep(ctx, "Get")
	return uc.slots.Get(ctx, slotNumber)
}

// Occupancy загрузка парковки и срок ожидания, который сейчас применяется
func (uc *UseCase) Occupancy(ctx context.Context) (*OccupancyResponse, error) {
	uc.sweep(ctx, "Occupancy")

	occupancy, err := uc.slots.Occupancy(ctx)
	if err != nil {
		return nil, err
	}

	return &OccupancyResponse{
		Booked:      occupancy.Booked,
		Total:       occupancy.Total,
		Ratio:       occupancy.Ratio,
		WaitMinutes: uc.policy.WaitFor(occupancy.Ratio).Minutes(),
	}, nil
}

// Book бронирует место
func (uc *UseCase) Book(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error) {
	uc.logger.Info("BookSlot: slot=%s, user=%s", slotNumber, actor.ID)
	uc.sweep(ctx, "BookSlot")

	available, err := uc.slots.IsAvailable(ctx, slotNumber)
	if err != nil {
		return nil, err
	}
	if !available {
		uc.logger.Warn("BookSlot: slot=%s is not available", slotNumber)
		return nil, slots.ErrNotAvailable
	}

	slot, err := uc.slots.Book(ctx, slotNumber, actor)
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, slotNumber, actor, domain.ActivityBook)
	return slot, nil
}

// Occupy занимает забронированное место
func (uc *UseCase) Occupy(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error) {
	uc.logger.Info("OccupySlot: slot=%s, user=%s", slotNumber, actor.ID)
	uc.sweep(ctx, "OccupySlot")

	slot, err := uc.slots.Occupy(ctx, slotNumber, actor)
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, slotNumber, actor, domain.ActivityOccupy)
	return slot, nil
}

// Vacant освобождает занятое место
func (uc *UseCase) Vacant(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error) {
	uc.logger.Info("VacantSlot: slot=%s, user=%s", slotNumber, actor.ID)
	uc.sweep(ctx, "VacantSlot")

	slot, err := uc.slots.Vacant(ctx, slotNumber, actor)
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, slotNumber, actor, domain.ActivityVacant)
	return slot, nil
}

// Cancel отменяет бронь до занятия места
func (uc *UseCase) Cancel(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error) {
	uc.logger.Info("CancelSlot: slot=%s, user=%s", slotNumber, actor.ID)
	uc.sweep(ctx, "CancelSlot")

	slot, err := uc.slots.Cancel(ctx, slotNumber, actor)
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, slotNumber, actor, domain.ActivityCancel)
	return slot, nil
}

// sweep снимает просроченные брони перед операцией
// Ошибка очистки не мешает обработать сам запрос
func (uc *UseCase) sweep(ctx context.Context, op string) {
	if _, err := uc.sweeper.Execute(ctx); err != nil {
		uc.logger.Warn("%s: sweep failed, continuing: %v", op, err)
	}
}
