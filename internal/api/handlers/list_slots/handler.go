package list_slots

import (
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
)

const (
	msgInvalidFilter = "некорректный фильтр, ожидается true или false"
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

// Handle GET /api/v1/slots
// Query params: reserved, booked, occupied (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListSlotsRequest{}

	for key, dst := range map[string]**bool{
		"reserved": &req.IsReserved,
		"booked":   &req.IsBooked,
		"occupied": &req.IsOccupied,
	} {
		v, err := handlers.ParseBoolQuery(r, key)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid %s filter: %v", key, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		*dst = v
	}

	result, err := h.useCase.List(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /slots - Failed to list slots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /slots - Listed %d slots", len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
