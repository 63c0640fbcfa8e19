package activity

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ActivityRepository интерфейс репозитория журнала действий
type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) (*domain.ActivityLog, error)
	List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.ActivityLog, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Metrics счетчик переходов состояния мест
type Metrics interface {
	RecordTransition(activity string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
