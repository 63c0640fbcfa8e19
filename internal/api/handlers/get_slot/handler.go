package get_slot

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
	useCase SlotUseCase
	logger  Logger
}

func NewHandler(useCase SlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/{slotNumber}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotNumber := mux.Vars(r)["slotNumber"]

	slot, err := h.useCase.Get(r.Context(), slotNumber)
	if err != nil {
		if errors.Is(err, slots.ErrSlotNotFound) {
			h.logger.Warn("GET /slots/{n} - Slot not found: slot=%s", slotNumber)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /slots/{n} - Failed to get slot: slot=%s, error=%v", slotNumber, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, slot)
}
