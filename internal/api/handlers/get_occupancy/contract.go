package get_occupancy

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/usecase/slot_lifecycle"
)

type OccupancyUseCase interface {
	Occupancy(ctx context.Context) (*slot_lifecycle.OccupancyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
