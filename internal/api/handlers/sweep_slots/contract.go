package sweep_slots

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/usecase/sweep_expired"
)

type SweepUseCase interface {
	Execute(ctx context.Context) (*sweep_expired.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
