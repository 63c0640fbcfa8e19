package activity

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/activity/models"
)

// Service журнал действий с местами
type Service struct {
	repo         ActivityRepository
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр журнала действий
// metrics может быть nil
func NewService(repo ActivityRepository, metrics Metrics, logger Logger) *Service {
	return &Service{
		repo:         repo,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Record записывает переход места в журнал
// Ошибка хранилища только логируется: переход уже выполнен и не откатывается
func (s *Service) Record(ctx context.Context, slotNumber string, actor domain.Actor, activity domain.ActivityType) {
	if s.metrics != nil {
		s.metrics.RecordTransition(string(activity))
	}

	entry := domain.NewActivityLog(slotNumber, actor, activity, s.timeProvider.Now())
	if _, err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Record: failed to log %s of slot=%s by user=%s: %v", activity, slotNumber, actor.ID, err)
		return
	}

	s.logger.Info("Record: %s", entry.Narration)
}

// List получает записи журнала, новые первыми
func (s *Service) List(ctx context.Context, req *models.ListActivityRequest) (*models.ActivityListResponse, error) {
	filter := domain.ActivityFilter{
		SlotNumber: req.SlotNumber,
		UserID:     req.UserID,
		Limit:      req.Limit,
	}

	if req.ActivityType != nil {
		activityType := domain.ActivityType(*req.ActivityType)
		if !activityType.IsValid() {
			s.logger.Warn("List: invalid activity type %q", *req.ActivityType)
			return nil, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, *req.ActivityType)
		}
		filter.ActivityType = &activityType
	}

	if req.Limit < 0 || req.Limit > models.MaxListLimit {
		s.logger.Warn("List: invalid limit %d", req.Limit)
		return nil, fmt.Errorf("%w: limit must be between 0 and %d", ErrInvalidInput, models.MaxListLimit)
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainActivityList(entries), nil
}

// Clear очищает журнал
func (s *Service) Clear(ctx context.Context) (*models.ClearResponse, error) {
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		s.logger.Error("Clear: repository error: %v", err)
		return nil, fmt.Errorf("%w: Clear - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Clear: removed %d log entries", deleted)
	return &models.ClearResponse{Deleted: deleted}, nil
}
