package delete_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots"
)

const (
	msgNotFound = "место не найдено"
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

// Handle DELETE /api/v1/slots/{slotNumber}
// Только для администратора
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotNumber := mux.Vars(r)["slotNumber"]

	if err := h.service.Delete(r.Context(), slotNumber); err != nil {
		if errors.Is(err, slots.ErrSlotNotFound) {
			h.logger.Warn("DELETE /slots/{n} - Slot not found: slot=%s", slotNumber)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /slots/{n} - Failed to delete slot: slot=%s, error=%v", slotNumber, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /slots/{n} - Slot deleted: slot=%s", slotNumber)
	w.WriteHeader(http.StatusNoContent)
}
