package slot_lifecycle

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/sweep_expired"
)

// SlotRegistry интерфейс реестра мест
type SlotRegistry interface {
	Get(ctx context.Context, slotNumber string) (*models.SlotResponse, error)
	List(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error)
	IsAvailable(ctx context.Context, slotNumber string) (bool, error)
	Book(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error)
	Occupy(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error)
	Vacant(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error)
	Cancel(ctx context.Context, slotNumber string, actor domain.Actor) (*models.SlotResponse, error)
	Occupancy(ctx context.Context) (*models.OccupancyResponse, error)
}

// Sweeper интерфейс очистки просроченных броней
type Sweeper interface {
	Execute(ctx context.Context) (*sweep_expired.Result, error)
}

// ActivityRecorder интерфейс журнала действий
type ActivityRecorder interface {
	Record(ctx context.Context, slotNumber string, actor domain.Actor, activity domain.ActivityType)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
