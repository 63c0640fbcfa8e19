package list_logs

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/activity"
)

const (
	msgInvalidLimit  = "некорректный limit"
	msgInvalidFilter = "некорректный фильтр журнала"
)

type Handler struct {
	service ActivityService
	logger  Logger
}

func NewHandler(service ActivityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/logs
// Query params: slot, type, user, limit (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ToServiceRequest(r)
	if err != nil {
		h.logger.Warn("GET /logs - Invalid query: %v (limit=%q)", err, r.URL.Query().Get("limit"))
		handlers.RespondBadRequest(w, msgInvalidLimit)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, activity.ErrInvalidInput) {
			h.logger.Warn("GET /logs - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /logs - Failed to list activity: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
