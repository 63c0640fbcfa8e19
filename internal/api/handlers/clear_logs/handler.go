package clear_logs

import (
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
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

// Handle DELETE /api/v1/logs
// Только для администратора
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Clear(r.Context())
	if err != nil {
		h.logger.Error("DELETE /logs - Failed to clear activity log: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /logs - Activity log cleared: deleted=%d", result.Deleted)
	handlers.RespondJSON(w, http.StatusOK, result)
}
