package book_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots"
)

const (
	msgMissingActor = "пользователь не определен"
	msgNotFound     = "место не найдено"
	msgReserved     = "место зарезервировано для людей с ограниченной мобильностью"
	msgNotAvailable = "место уже забронировано"
	msgConflict     = "место изменилось, повторите запрос"
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

// Handle POST /api/v1/slots/book/{slotNumber}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotNumber := mux.Vars(r)["slotNumber"]

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /slots/book/{n} - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	slot, err := h.useCase.Book(r.Context(), slotNumber, actor)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("POST /slots/book/{n} - Slot not found: slot=%s", slotNumber)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, slots.ErrReservedSlot):
			h.logger.Warn("POST /slots/book/{n} - Reserved slot: slot=%s, user=%s", slotNumber, actor.ID)
			handlers.RespondForbidden(w, msgReserved)

		case errors.Is(err, slots.ErrNotAvailable):
			h.logger.Warn("POST /slots/book/{n} - Not available: slot=%s, user=%s", slotNumber, actor.ID)
			handlers.RespondConflict(w, msgNotAvailable)

		case errors.Is(err, slots.ErrConcurrentUpdate):
			h.logger.Warn("POST /slots/book/{n} - Concurrent update: slot=%s", slotNumber)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /slots/book/{n} - Failed to book slot: slot=%s, error=%v", slotNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/book/{n} - Slot booked: slot=%s, user=%s", slotNumber, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
