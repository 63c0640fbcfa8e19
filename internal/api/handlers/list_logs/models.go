package list_logs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/activity/models"
)

var errInvalidLimit = errors.New("limit must be a non-negative integer")

// ToServiceRequest собирает фильтры журнала из query параметров slot, type, user, limit
func ToServiceRequest(r *http.Request) (*models.ListActivityRequest, error) {
	req := &models.ListActivityRequest{
		SlotNumber:   handlers.ParseStringQuery(r, "slot"),
		ActivityType: handlers.ParseStringQuery(r, "type"),
		UserID:       handlers.ParseStringQuery(r, "user"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, errInvalidLimit
		}
		req.Limit = limit
	}

	return req, nil
}
