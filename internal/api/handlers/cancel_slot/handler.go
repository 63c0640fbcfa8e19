package cancel_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots"
)

const (
	msgMissingActor    = "пользователь не определен"
	msgNotFound        = "место не найдено"
	msgNotBooked       = "место не забронировано вами"
	msgAlreadyOccupied = "место уже занято, освободите его"
	msgConflict        = "место изменилось, повторите запрос"
)

type Handler struct {
	useCase SlotUseCase
	logger  Logger
}

func NewHandler(useCase SlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/cancel/{slotNumber}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotNumber := mux.Vars(r)["slotNumber"]

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /slots/cancel/{n} - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	slot, err := h.useCase.Cancel(r.Context(), slotNumber, actor)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("POST /slots/cancel/{n} - Slot not found: slot=%s", slotNumber)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, slots.ErrNotBooked):
			h.logger.Warn("POST /slots/cancel/{n} - Not booked by user: slot=%s, user=%s", slotNumber, actor.ID)
			handlers.RespondConflict(w, msgNotBooked)

		case errors.Is(err, slots.ErrAlreadyOccupied):
			h.logger.Warn("POST /slots/cancel/{n} - Already occupied: slot=%s", slotNumber)
			handlers.RespondConflict(w, msgAlreadyOccupied)

		case errors.Is(err, slots.ErrConcurrentUpdate):
			h.logger.Warn("POST /slots/cancel/{n} - Concurrent update: slot=%s", slotNumber)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /slots/cancel/{n} - Failed to cancel booking: slot=%s, error=%v", slotNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/cancel/{n} - Booking cancelled: slot=%s, user=%s", slotNumber, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
