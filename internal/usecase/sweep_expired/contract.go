package sweep_expired

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
)

// SlotRegistry интерфейс реестра мест
type SlotRegistry interface {
	ListPendingExpiry(ctx context.Context) (*models.SlotListResponse, error)
	OccupancyRatio(ctx context.Context) (float64, error)
	ExpireIfDue(ctx context.Context, slotNumber string, wait time.Duration, now time.Time) (bool, *models.SlotResponse, error)
}

// ActivityRecorder интерфейс журнала действий
type ActivityRecorder interface {
	Record(ctx context.Context, slotNumber string, actor domain.Actor, activity domain.ActivityType)
}

// Metrics метрики прохода очистки
type Metrics interface {
	RecordSweep(cancelled, failed int, ratio float64)
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
