package seed_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
)

const (
	msgInvalidBody  = "некорректное тело запроса"
	msgInvalidInput = "некорректные параметры заполнения парковки"
)

type Handler struct {
	service  SlotService
	defaults models.SeedRequest
	logger   Logger
}

// NewHandler defaults подставляются вместо незаданных полей тела запроса
func NewHandler(service SlotService, defaults models.SeedRequest, logger Logger) *Handler {
	return &Handler{
		service:  service,
		defaults: defaults,
		logger:   logger,
	}
}

// Handle POST /api/v1/slots/default
// Тело необязательно, только для администратора
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var body SeedSlotsRequest
	if err := handlers.DecodeJSON(r, &body); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /slots/default - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}
	req := body.ToServiceRequest(h.defaults)

	result, err := h.service.Seed(r.Context(), req)
	if err != nil {
		if errors.Is(err, slots.ErrInvalidInput) {
			h.logger.Warn("POST /slots/default - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("POST /slots/default - Failed to seed slots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /slots/default - Parking seeded: created=%d, reserved=%d", result.Created, result.Reserved)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
