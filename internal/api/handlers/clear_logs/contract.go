package clear_logs

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/activity/models"
)

type ActivityService interface {
	Clear(ctx context.Context) (*models.ClearResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
