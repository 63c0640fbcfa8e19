package sweep_expired

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase снимает брони, которые не превратились в занятие места вовремя
// Срок ожидания зависит от загрузки парковки: чем она выше, тем он короче
type UseCase struct {
	slots        SlotRegistry
	recorder     ActivityRecorder
	policy       domain.WaitPolicy
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil
func NewUseCase(
	slots SlotRegistry,
	recorder ActivityRecorder,
	policy domain.WaitPolicy,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slots:        slots,
		recorder:     recorder,
		policy:       policy,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет один проход очистки
// Ошибка по отдельному месту логируется и не прерывает проход
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	now := uc.timeProvider.Now()

	// 1. Забронированные, но не занятые места
	pending, err := uc.slots.ListPendingExpiry(ctx)
	if err != nil {
		uc.logger.Error("SweepExpired: failed to list pending slots: %v", err)
		return nil, fmt.Errorf("%w: list pending slots: %w", ErrInternal, err)
	}

	result := &Result{Candidates: len(pending.Slots)}
	if result.Candidates == 0 {
		return result, nil
	}

	// 2. Загрузка считается один раз на весь проход
	ratio, err := uc.slots.OccupancyRatio(ctx)
	if err != nil {
		uc.logger.Error("SweepExpired: failed to get occupancy ratio: %v", err)
		return nil, fmt.Errorf("%w: occupancy ratio: %w", ErrInternal, err)
	}

	wait := uc.policy.WaitFor(ratio)
	result.Ratio = ratio
	result.Wait = wait
	result.WaitMinutes = wait.Minutes()

	// 3. Снимаем просроченные брони
	for _, slot := range pending.Slots {
		if slot.BookedAt != nil && now.Before(slot.BookedAt.Add(wait)) {
			continue
		}

		cancelled, _, err := uc.slots.ExpireIfDue(ctx, slot.SlotNumber, wait, now)
		if err != nil {
			result.Failed++
			uc.logger.Error("SweepExpired: failed to expire slot=%s: %v", slot.SlotNumber, err)
			continue
		}
		if !cancelled {
			// место заняли или отменили между чтением списка и проверкой
			continue
		}

		result.Cancelled++
		uc.recorder.Record(ctx, slot.SlotNumber, domain.SystemActor(), domain.ActivityCancel)
	}

	if uc.metrics != nil {
		uc.metrics.RecordSweep(result.Cancelled, result.Failed, ratio)
	}

	if result.Cancelled > 0 || result.Failed > 0 {
		uc.logger.Info("SweepExpired: candidates=%d, cancelled=%d, failed=%d, ratio=%.2f, wait=%s",
			result.Candidates, result.Cancelled, result.Failed, ratio, wait)
	}

	return result, nil
}
