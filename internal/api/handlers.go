package api

import (
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/book_slot"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/cancel_slot"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/clear_logs"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_slot"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/delete_slot"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_occupancy"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_slot"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_logs"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_slots"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/occupy_slot"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/seed_slots"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/sweep_slots"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-ParkingService/internal/api/handlers/vacant_slot"
	"github.com/m04kA/SMC-ParkingService/internal/service/activity"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/slot_lifecycle"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/sweep_expired"
)

// Services сервисы и use cases, которые обслуживают HTTP API
type Services struct {
	Lifecycle *slot_lifecycle.UseCase
	Slots     *slots.Service
	Sweeper   *sweep_expired.UseCase
	Activity  *activity.Service
}

type HandlerLogger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NewHandlers создает обработчики всех маршрутов
// Пользовательские операции идут через slot_lifecycle (очистка просроченных броней
// и журнал), административные напрямую в сервис мест
func NewHandlers(s Services, seedDefaults models.SeedRequest, log HandlerLogger) Handlers {
	return Handlers{
		ListSlots:    list_slots.NewHandler(s.Lifecycle, log).Handle,
		GetOccupancy: get_occupancy.NewHandler(s.Lifecycle, log).Handle,
		GetSlot:      get_slot.NewHandler(s.Lifecycle, log).Handle,
		CreateSlot:   create_slot.NewHandler(s.Slots, log).Handle,
		SeedSlots:    seed_slots.NewHandler(s.Slots, seedDefaults, log).Handle,
		SweepSlots:   sweep_slots.NewHandler(s.Sweeper, log).Handle,
		BookSlot:     book_slot.NewHandler(s.Lifecycle, log).Handle,
		OccupySlot:   occupy_slot.NewHandler(s.Lifecycle, log).Handle,
		VacantSlot:   vacant_slot.NewHandler(s.Lifecycle, log).Handle,
		CancelSlot:   cancel_slot.NewHandler(s.Lifecycle, log).Handle,
		UpdateSlot:   update_slot.NewHandler(s.Slots, log).Handle,
		DeleteSlot:   delete_slot.NewHandler(s.Slots, log).Handle,
		ListLogs:     list_logs.NewHandler(s.Activity, log).Handle,
		ClearLogs:    clear_logs.NewHandler(s.Activity, log).Handle,
	}
}
