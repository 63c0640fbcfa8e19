package update_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
)

const (
	msgInvalidBody  = "некорректное тело запроса"
	msgInvalidInput = "некорректные изменения места"
	msgNotFound     = "место не найдено"
	msgConflict     = "место изменилось, повторите запрос"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/slots/{slotNumber}
// Только для администратора
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotNumber := mux.Vars(r)["slotNumber"]

	var req models.UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /slots/{n} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	slot, err := h.service.Update(r.Context(), slotNumber, &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("PUT /slots/{n} - Invalid input: slot=%s, error=%v", slotNumber, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("PUT /slots/{n} - Slot not found: slot=%s", slotNumber)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, slots.ErrConcurrentUpdate):
			h.logger.Warn("PUT /slots/{n} - Concurrent update: slot=%s", slotNumber)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PUT /slots/{n} - Failed to update slot: slot=%s, error=%v", slotNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /slots/{n} - Slot updated: slot=%s", slotNumber)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
